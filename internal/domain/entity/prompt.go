package entity

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/dreschagin/prompt-server/internal/domain/valueobject"
)

// documentIndent: отступ при сохранении JSON документа на диск
const documentIndent = "    "

var ErrEmptyContent = errors.New("prompt content is empty")

// Prompt представляет JSON документ промпта.
// Содержимое хранится как есть и не проходит валидацию схемы.
type Prompt struct {
	filename valueobject.PromptFilename
	content  json.RawMessage
}

// NewPrompt создает промпт (Factory Method)
func NewPrompt(filename valueobject.PromptFilename, content json.RawMessage) (*Prompt, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, ErrEmptyContent
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("prompt content is not valid JSON")
	}

	return &Prompt{
		filename: filename,
		content:  append(json.RawMessage(nil), trimmed...),
	}, nil
}

// Filename возвращает имя файла
func (p *Prompt) Filename() valueobject.PromptFilename {
	return p.filename
}

// Content возвращает исходное JSON содержимое
func (p *Prompt) Content() json.RawMessage {
	return p.content
}

// Document возвращает содержимое, отформатированное с отступом в 4 пробела.
// Порядок ключей сохраняется.
func (p *Prompt) Document() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, p.content, "", documentIndent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsTruthyJSON сообщает, является ли значение "непустым": null, false, 0, "", [] и {} считаются пустыми.
func IsTruthyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}

	var value interface{}
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return false
	}

	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}
