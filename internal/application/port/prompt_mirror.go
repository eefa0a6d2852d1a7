package port

import "context"

// PromptMirror copies prompt documents to secondary storage.
type PromptMirror interface {
	// PutPrompt uploads the document stored under filename.
	PutPrompt(ctx context.Context, filename string, document []byte) error

	// DeletePrompt removes the mirrored copy of filename.
	DeletePrompt(ctx context.Context, filename string) error
}
