package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dreschagin/prompt-server/internal/application/usecase"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

const defaultMaxBodyBytes int64 = 10 * 1024 * 1024

type savePromptRequest struct {
	Filename string          `json:"filename"`
	Content  json.RawMessage `json:"content"`
}

type deletePromptRequest struct {
	Filename string `json:"filename"`
}

type promptExistsResponse struct {
	Exists bool `json:"exists"`
}

type promptMutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PromptAPIHandler обслуживает JSON API каталога промптов
type PromptAPIHandler struct {
	listPromptsUC       *usecase.ListPromptsUseCase
	checkPromptExistsUC *usecase.CheckPromptExistsUseCase
	savePromptUC        *usecase.SavePromptUseCase
	deletePromptUC      *usecase.DeletePromptUseCase
	maxBodyBytes        int64
	exposeErrorDetails  bool
	logger              *logger.Logger
}

// NewPromptAPIHandler создает новый handler
func NewPromptAPIHandler(
	listPromptsUC *usecase.ListPromptsUseCase,
	checkPromptExistsUC *usecase.CheckPromptExistsUseCase,
	savePromptUC *usecase.SavePromptUseCase,
	deletePromptUC *usecase.DeletePromptUseCase,
	maxBodyBytes int64,
	exposeErrorDetails bool,
	log *logger.Logger,
) *PromptAPIHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	return &PromptAPIHandler{
		listPromptsUC:       listPromptsUC,
		checkPromptExistsUC: checkPromptExistsUC,
		savePromptUC:        savePromptUC,
		deletePromptUC:      deletePromptUC,
		maxBodyBytes:        maxBodyBytes,
		exposeErrorDetails:  exposeErrorDetails,
		logger:              log,
	}
}

// ListPrompts обрабатывает GET /list-prompts
func (h *PromptAPIHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	names, err := h.listPromptsUC.Execute(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, names)
}

// CheckPromptExists обрабатывает GET /check-prompt-exists?filename=<name>
func (h *PromptAPIHandler) CheckPromptExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.checkPromptExistsUC.Execute(r.Context(), r.URL.Query().Get("filename"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, promptExistsResponse{Exists: exists})
}

// SavePrompt обрабатывает POST /save-prompt
func (h *PromptAPIHandler) SavePrompt(w http.ResponseWriter, r *http.Request) {
	var req savePromptRequest
	if err := h.decodeBody(w, r, &req, "Error saving prompt"); err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.savePromptUC.Execute(r.Context(), usecase.SavePromptCommand{
		Filename: req.Filename,
		Content:  req.Content,
	}); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, promptMutationResponse{Success: true, Message: "Prompt saved successfully."})
}

// DeletePrompt обрабатывает POST /delete-prompt
func (h *PromptAPIHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	var req deletePromptRequest
	if err := h.decodeBody(w, r, &req, "Error deleting prompt"); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.deletePromptUC.Execute(r.Context(), usecase.DeletePromptCommand{
		Filename: req.Filename,
	}); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, promptMutationResponse{Success: true, Message: "Prompt deleted."})
}

// decodeBody читает ровно один JSON объект из тела запроса.
// Синтаксическая ошибка считается внутренней ошибкой операции (failMessage),
// неизвестные поля и неверные типы полей возвращаются как 400.
func (h *PromptAPIHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, failMessage string) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return classifyDecodeError(err, failMessage)
	}

	// Trailing data after the object
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("extra data after JSON object")
		}
		return classifyDecodeError(err, failMessage)
	}

	return nil
}

func classifyDecodeError(err error, failMessage string) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return usecase.NewError(usecase.KindPayloadTooLarge, "Payload too large", err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) || strings.HasPrefix(err.Error(), "json: unknown field") {
		return usecase.NewError(usecase.KindInvalidInput, "Invalid request body: "+err.Error(), nil)
	}

	return usecase.NewError(usecase.KindInternal, failMessage, err)
}

// writeError переводит ошибку use case в HTTP статус
func (h *PromptAPIHandler) writeError(w http.ResponseWriter, err error) {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		ucErr = usecase.NewError(usecase.KindInternal, "Internal server error", err)
	}

	message := ucErr.Message
	if ucErr.Kind == usecase.KindInternal && ucErr.Err != nil {
		h.logger.Error("Prompt API request failed", ucErr.Err, "message", ucErr.Message)
		if h.exposeErrorDetails {
			message = ucErr.Error()
		}
	}

	http.Error(w, message, statusForKind(ucErr.Kind))
}

func statusForKind(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindInvalidInput:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func (h *PromptAPIHandler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", err)
	}
}
