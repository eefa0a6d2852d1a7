package port

import (
	"context"

	"github.com/dreschagin/prompt-server/internal/application/dto"
)

// EventPublisher publishes prompt change events to a message broker
type EventPublisher interface {
	// PublishPromptEvent publishes event under a subject derived from its type
	PublishPromptEvent(ctx context.Context, event *dto.PromptEventDTO) error

	// Close closes the connection to the message broker
	Close() error
}
