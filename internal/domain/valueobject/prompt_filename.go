package valueobject

import (
	"errors"
	"strings"
)

// PromptExtension: обязательное расширение файла промпта
const PromptExtension = ".json"

var (
	ErrEmptyFilename     = errors.New("empty filename")
	ErrInvalidFilename   = errors.New("invalid filename")
	ErrMissingJSONSuffix = errors.New("filename must end with " + PromptExtension)
)

// PromptFilename представляет санитизированное имя файла промпта (Value Object).
// Гарантирует, что имя не содержит компонентов пути и состоит только из [A-Za-z0-9_.-].
type PromptFilename string

// NewPromptFilename санитизирует имя и проверяет расширение .json
func NewPromptFilename(raw string) (PromptFilename, error) {
	name, err := ParsePromptFilename(raw)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(string(name), PromptExtension) {
		return "", ErrMissingJSONSuffix
	}
	return name, nil
}

// ParsePromptFilename санитизирует имя без проверки расширения (используется при удалении)
func ParsePromptFilename(raw string) (PromptFilename, error) {
	if raw == "" {
		return "", ErrEmptyFilename
	}
	name := SanitizeFilename(raw)
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidFilename
	}
	return PromptFilename(name), nil
}

// SanitizeFilename отбрасывает компоненты пути и удаляет все символы вне [A-Za-z0-9_.-]
func SanitizeFilename(raw string) string {
	base := raw
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}

	var b strings.Builder
	b.Grow(len(base))
	for i := 0; i < len(base); i++ {
		if isAllowedFilenameByte(base[i]) {
			b.WriteByte(base[i])
		}
	}
	return b.String()
}

func isAllowedFilenameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '.', c == '-':
		return true
	default:
		return false
	}
}

// String возвращает строковое представление имени
func (f PromptFilename) String() string {
	return string(f)
}
