package usecase

import (
	"context"

	"github.com/dreschagin/prompt-server/internal/domain/repository"
	"github.com/dreschagin/prompt-server/internal/domain/valueobject"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

// CheckPromptExistsUseCase проверяет наличие промпта по имени
type CheckPromptExistsUseCase struct {
	repository repository.PromptRepository
	effects    PromptSideEffects
	logger     *logger.Logger
}

// NewCheckPromptExistsUseCase создает новый use case
func NewCheckPromptExistsUseCase(
	repository repository.PromptRepository,
	effects PromptSideEffects,
	logger *logger.Logger,
) *CheckPromptExistsUseCase {
	return &CheckPromptExistsUseCase{
		repository: repository,
		effects:    effects,
		logger:     logger,
	}
}

// Execute проверяет имя так же, как save/delete.
// Если санитизация меняет имя, файл с таким именем не может существовать в каталоге,
// поэтому ответ false без обращения к файловой системе.
func (uc *CheckPromptExistsUseCase) Execute(ctx context.Context, filename string) (exists bool, err error) {
	defer func() { uc.effects.record("exists", err) }()

	if filename == "" {
		return false, invalidInput("Filename parameter is missing")
	}

	name, parseErr := valueobject.ParsePromptFilename(filename)
	if parseErr != nil || name.String() != filename {
		uc.logger.Debug("Rejected unsanitized prompt name", "filename", filename)
		return false, nil
	}

	exists, err = uc.repository.Exists(ctx, name)
	if err != nil {
		uc.logger.Error("Failed to check prompt", err, "filename", filename)
		return false, internal("Error checking prompt", err)
	}

	return exists, nil
}
