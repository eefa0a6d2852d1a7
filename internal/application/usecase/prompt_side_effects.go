package usecase

import (
	"context"

	"github.com/dreschagin/prompt-server/internal/application/dto"
	"github.com/dreschagin/prompt-server/internal/application/port"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

// Outcome label recorded for successful operations
const outcomeOK = "ok"

// PromptSideEffects группирует необязательные зависимости, которые уведомляются после изменения промпта.
// Любое поле может быть nil (интеграция выключена). Ошибки только логируются и не влияют на ответ.
type PromptSideEffects struct {
	Notifier  port.NotificationService
	Publisher port.EventPublisher
	Mirror    port.PromptMirror
	Recorder  port.OperationRecorder
}

func (e PromptSideEffects) promptSaved(ctx context.Context, filename string, document []byte, log *logger.Logger) {
	event := dto.NewPromptEventDTO(dto.PromptEventSaved, filename, dto.PromptEventSourceAPI)
	e.dispatch(ctx, event, log)

	if e.Mirror != nil {
		if err := e.Mirror.PutPrompt(ctx, filename, document); err != nil {
			log.Error("Failed to mirror prompt", err, "filename", filename)
		}
	}
}

func (e PromptSideEffects) promptDeleted(ctx context.Context, filename string, log *logger.Logger) {
	event := dto.NewPromptEventDTO(dto.PromptEventDeleted, filename, dto.PromptEventSourceAPI)
	e.dispatch(ctx, event, log)

	if e.Mirror != nil {
		if err := e.Mirror.DeletePrompt(ctx, filename); err != nil {
			log.Error("Failed to delete mirrored prompt", err, "filename", filename)
		}
	}
}

func (e PromptSideEffects) dispatch(ctx context.Context, event *dto.PromptEventDTO, log *logger.Logger) {
	if e.Notifier != nil {
		e.Notifier.BroadcastPromptEvent(event)
		log.Debug("Prompt event broadcasted", "type", event.Type, "client_count", e.Notifier.ClientCount())
	}

	if e.Publisher != nil {
		if err := e.Publisher.PublishPromptEvent(ctx, event); err != nil {
			log.Error("Failed to publish prompt event", err, "type", event.Type, "filename", event.Filename)
		}
	}
}

func (e PromptSideEffects) record(operation string, err error) {
	if e.Recorder == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = KindOf(err).String()
	}
	e.Recorder.RecordPromptOperation(operation, outcome)
}
