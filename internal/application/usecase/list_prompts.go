package usecase

import (
	"context"

	"github.com/dreschagin/prompt-server/internal/domain/repository"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

// ListPromptsUseCase возвращает имена всех сохраненных промптов
type ListPromptsUseCase struct {
	repository repository.PromptRepository
	effects    PromptSideEffects
	logger     *logger.Logger
}

// NewListPromptsUseCase создает новый use case
func NewListPromptsUseCase(
	repository repository.PromptRepository,
	effects PromptSideEffects,
	logger *logger.Logger,
) *ListPromptsUseCase {
	return &ListPromptsUseCase{
		repository: repository,
		effects:    effects,
		logger:     logger,
	}
}

// Execute возвращает список *.json файлов в порядке чтения каталога
func (uc *ListPromptsUseCase) Execute(ctx context.Context) (names []string, err error) {
	defer func() { uc.effects.record("list", err) }()

	names, err = uc.repository.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list prompts", err)
		return nil, internal("Error listing prompts", err)
	}

	uc.logger.Debug("Listed prompts", "count", len(names))
	return names, nil
}
