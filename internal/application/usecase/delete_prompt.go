package usecase

import (
	"context"
	"errors"

	"github.com/dreschagin/prompt-server/internal/domain/repository"
	"github.com/dreschagin/prompt-server/internal/domain/valueobject"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

// DeletePromptCommand содержит входные данные удаления
type DeletePromptCommand struct {
	Filename string
}

// DeletePromptUseCase удаляет промпт. Расширение .json не проверяется.
type DeletePromptUseCase struct {
	repository repository.PromptRepository
	effects    PromptSideEffects
	logger     *logger.Logger
}

// NewDeletePromptUseCase создает новый use case
func NewDeletePromptUseCase(
	repository repository.PromptRepository,
	effects PromptSideEffects,
	logger *logger.Logger,
) *DeletePromptUseCase {
	return &DeletePromptUseCase{
		repository: repository,
		effects:    effects,
		logger:     logger,
	}
}

// Execute удаляет файл или возвращает KindNotFound
func (uc *DeletePromptUseCase) Execute(ctx context.Context, cmd DeletePromptCommand) (err error) {
	defer func() { uc.effects.record("delete", err) }()

	if cmd.Filename == "" {
		return invalidInput("Missing filename")
	}

	// Имя, которое после санитизации пустое или "..", не может указывать на файл промпта
	name, err := valueobject.ParsePromptFilename(cmd.Filename)
	if err != nil {
		return notFound("File not found")
	}

	if err := uc.repository.Delete(ctx, name); err != nil {
		if errors.Is(err, repository.ErrPromptNotFound) {
			return notFound("File not found")
		}
		uc.logger.Error("Failed to delete prompt", err, "filename", name.String())
		return internal("Error deleting prompt", err)
	}

	uc.logger.Info("Prompt deleted", "filename", name.String())
	uc.effects.promptDeleted(ctx, name.String(), uc.logger)

	return nil
}
