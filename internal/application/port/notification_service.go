package port

import "github.com/dreschagin/prompt-server/internal/application/dto"

// NotificationService определяет интерфейс для отправки уведомлений (Port)
// Реализация будет в Infrastructure слое (WebSocket Hub)
type NotificationService interface {
	// BroadcastPromptEvent отправляет событие всем подключенным клиентам
	BroadcastPromptEvent(event *dto.PromptEventDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
