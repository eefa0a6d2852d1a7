package repository

import (
	"context"
	"errors"

	"github.com/dreschagin/prompt-server/internal/domain/entity"
	"github.com/dreschagin/prompt-server/internal/domain/valueobject"
)

// ErrPromptNotFound возвращается, когда файл промпта отсутствует
var ErrPromptNotFound = errors.New("prompt not found")

// PromptRepository определяет интерфейс хранилища промптов (Port)
// Реализация будет в Infrastructure слое
type PromptRepository interface {
	// List возвращает имена всех *.json файлов хранилища
	List(ctx context.Context) ([]string, error)

	// Exists проверяет наличие файла с указанным именем
	Exists(ctx context.Context, filename valueobject.PromptFilename) (bool, error)

	// Save создает или перезаписывает промпт
	Save(ctx context.Context, prompt *entity.Prompt) error

	// Delete удаляет промпт, ErrPromptNotFound если файла нет
	Delete(ctx context.Context, filename valueobject.PromptFilename) error
}
