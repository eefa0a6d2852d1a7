package dto

import "time"

// Типы событий промптов
const (
	PromptEventSaved   = "saved"
	PromptEventDeleted = "deleted"
	PromptEventChanged = "changed"
	PromptEventRemoved = "removed"
)

// Источники событий
const (
	PromptEventSourceAPI        = "api"
	PromptEventSourceFilesystem = "filesystem"
)

// PromptEventDTO описывает изменение в каталоге промптов.
// Рассылается через WebSocket и публикуется в NATS.
type PromptEventDTO struct {
	Type      string    `json:"type"`
	Filename  string    `json:"filename"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPromptEventDTO создает событие с текущим временем
func NewPromptEventDTO(eventType, filename, source string) *PromptEventDTO {
	return &PromptEventDTO{
		Type:      eventType,
		Filename:  filename,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}
