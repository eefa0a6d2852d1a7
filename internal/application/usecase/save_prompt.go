package usecase

import (
	"context"
	"encoding/json"

	"github.com/dreschagin/prompt-server/internal/domain/entity"
	"github.com/dreschagin/prompt-server/internal/domain/repository"
	"github.com/dreschagin/prompt-server/internal/domain/valueobject"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

// SavePromptCommand содержит входные данные сохранения
type SavePromptCommand struct {
	Filename string
	Content  json.RawMessage
}

// SavePromptResult содержит имя, под которым промпт записан на диск
type SavePromptResult struct {
	Filename string
}

// SavePromptUseCase создает или перезаписывает промпт
type SavePromptUseCase struct {
	repository repository.PromptRepository
	effects    PromptSideEffects
	logger     *logger.Logger
}

// NewSavePromptUseCase создает новый use case
func NewSavePromptUseCase(
	repository repository.PromptRepository,
	effects PromptSideEffects,
	logger *logger.Logger,
) *SavePromptUseCase {
	return &SavePromptUseCase{
		repository: repository,
		effects:    effects,
		logger:     logger,
	}
}

// Execute валидирует команду, санитизирует имя и записывает документ
func (uc *SavePromptUseCase) Execute(ctx context.Context, cmd SavePromptCommand) (result *SavePromptResult, err error) {
	defer func() { uc.effects.record("save", err) }()

	// 1. Обязательные поля
	if cmd.Filename == "" || !entity.IsTruthyJSON(cmd.Content) {
		return nil, invalidInput("Missing filename or content")
	}

	// 2. Санитизация и проверка расширения
	name, err := valueobject.NewPromptFilename(cmd.Filename)
	if err != nil {
		uc.logger.Debug("Rejected prompt filename", "filename", cmd.Filename, "error", err.Error())
		return nil, invalidInput("Filename must end with .json")
	}

	prompt, err := entity.NewPrompt(name, cmd.Content)
	if err != nil {
		return nil, internal("Error saving prompt", err)
	}

	// 3. Запись на диск
	if err := uc.repository.Save(ctx, prompt); err != nil {
		uc.logger.Error("Failed to save prompt", err, "filename", name.String())
		return nil, internal("Error saving prompt", err)
	}

	uc.logger.Info("Prompt saved", "filename", name.String())

	// 4. Уведомления и зеркалирование
	document, docErr := prompt.Document()
	if docErr == nil {
		uc.effects.promptSaved(ctx, name.String(), document, uc.logger)
	}

	return &SavePromptResult{Filename: name.String()}, nil
}
