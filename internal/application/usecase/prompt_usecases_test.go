package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/dreschagin/prompt-server/internal/application/dto"
	"github.com/dreschagin/prompt-server/internal/domain/entity"
	"github.com/dreschagin/prompt-server/internal/domain/repository"
	"github.com/dreschagin/prompt-server/internal/domain/valueobject"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

type memoryPromptRepo struct {
	mu      sync.Mutex
	files   map[string][]byte
	listErr error
	saveErr error
}

func newMemoryPromptRepo() *memoryPromptRepo {
	return &memoryPromptRepo{files: make(map[string][]byte)}
}

func (r *memoryPromptRepo) List(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	names := make([]string, 0, len(r.files))
	for name := range r.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *memoryPromptRepo) Exists(_ context.Context, filename valueobject.PromptFilename) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.files[filename.String()]
	return ok, nil
}

func (r *memoryPromptRepo) Save(_ context.Context, prompt *entity.Prompt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	doc, err := prompt.Document()
	if err != nil {
		return err
	}
	r.files[prompt.Filename().String()] = doc
	return nil
}

func (r *memoryPromptRepo) Delete(_ context.Context, filename valueobject.PromptFilename) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[filename.String()]; !ok {
		return repository.ErrPromptNotFound
	}
	delete(r.files, filename.String())
	return nil
}

type recordingNotifier struct {
	events []*dto.PromptEventDTO
}

func (n *recordingNotifier) BroadcastPromptEvent(event *dto.PromptEventDTO) {
	n.events = append(n.events, event)
}

func (n *recordingNotifier) ClientCount() int { return 0 }

type recordingPublisher struct {
	events []*dto.PromptEventDTO
	err    error
}

func (p *recordingPublisher) PublishPromptEvent(_ context.Context, event *dto.PromptEventDTO) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMirror struct {
	puts    map[string][]byte
	deletes []string
}

func (m *recordingMirror) PutPrompt(_ context.Context, filename string, document []byte) error {
	if m.puts == nil {
		m.puts = make(map[string][]byte)
	}
	m.puts[filename] = document
	return nil
}

func (m *recordingMirror) DeletePrompt(_ context.Context, filename string) error {
	m.deletes = append(m.deletes, filename)
	return nil
}

type recordingRecorder struct {
	calls []string
}

func (r *recordingRecorder) RecordPromptOperation(operation, outcome string) {
	r.calls = append(r.calls, operation+":"+outcome)
}

func assertKind(t *testing.T, err error, kind ErrorKind, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var ucErr *Error
	if !errors.As(err, &ucErr) {
		t.Fatalf("expected *usecase.Error, got %T: %v", err, err)
	}
	if ucErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s", kind, ucErr.Kind)
	}
	if ucErr.Message != message {
		t.Fatalf("expected message %q, got %q", message, ucErr.Message)
	}
}

func TestSavePromptUseCase_Validation(t *testing.T) {
	repo := newMemoryPromptRepo()
	uc := NewSavePromptUseCase(repo, PromptSideEffects{}, logger.New("error"))

	tests := []struct {
		name    string
		command SavePromptCommand
		message string
	}{
		{name: "missing filename", command: SavePromptCommand{Content: json.RawMessage(`{"a":1}`)}, message: "Missing filename or content"},
		{name: "missing content", command: SavePromptCommand{Filename: "a.json"}, message: "Missing filename or content"},
		{name: "null content", command: SavePromptCommand{Filename: "a.json", Content: json.RawMessage(`null`)}, message: "Missing filename or content"},
		{name: "empty object", command: SavePromptCommand{Filename: "a.json", Content: json.RawMessage(`{}`)}, message: "Missing filename or content"},
		{name: "no suffix", command: SavePromptCommand{Filename: "notes", Content: json.RawMessage(`{"a":1}`)}, message: "Filename must end with .json"},
		{name: "sanitized to nothing", command: SavePromptCommand{Filename: "../", Content: json.RawMessage(`{"a":1}`)}, message: "Filename must end with .json"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.command)
			assertKind(t, err, KindInvalidInput, tc.message)
		})
	}

	if len(repo.files) != 0 {
		t.Fatalf("expected no files to be written, got %v", repo.files)
	}
}

func TestSavePromptUseCase_SanitizesAndNotifies(t *testing.T) {
	repo := newMemoryPromptRepo()
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{err: errors.New("nats down")}
	mirror := &recordingMirror{}
	recorder := &recordingRecorder{}
	uc := NewSavePromptUseCase(repo, PromptSideEffects{
		Notifier:  notifier,
		Publisher: publisher,
		Mirror:    mirror,
		Recorder:  recorder,
	}, logger.New("error"))

	res, err := uc.Execute(context.Background(), SavePromptCommand{
		Filename: "../x/a b!@#.json",
		Content:  json.RawMessage(`"hello"`),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Filename != "ab.json" {
		t.Fatalf("expected ab.json, got %s", res.Filename)
	}
	if string(repo.files["ab.json"]) != `"hello"` {
		t.Fatalf("unexpected stored document: %q", repo.files["ab.json"])
	}

	if len(notifier.events) != 1 || notifier.events[0].Type != dto.PromptEventSaved || notifier.events[0].Filename != "ab.json" {
		t.Fatalf("unexpected notifications: %+v", notifier.events)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.events))
	}
	if string(mirror.puts["ab.json"]) != `"hello"` {
		t.Fatalf("expected mirrored document, got %q", mirror.puts["ab.json"])
	}
	if len(recorder.calls) != 1 || recorder.calls[0] != "save:ok" {
		t.Fatalf("unexpected recorder calls: %v", recorder.calls)
	}
}

func TestSavePromptUseCase_StorageFailure(t *testing.T) {
	repo := newMemoryPromptRepo()
	repo.saveErr = errors.New("disk full")
	recorder := &recordingRecorder{}
	uc := NewSavePromptUseCase(repo, PromptSideEffects{Recorder: recorder}, logger.New("error"))

	_, err := uc.Execute(context.Background(), SavePromptCommand{Filename: "a.json", Content: json.RawMessage(`[1]`)})
	assertKind(t, err, KindInternal, "Error saving prompt")
	if err.Error() != "Error saving prompt: disk full" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
	if recorder.calls[0] != "save:internal" {
		t.Fatalf("unexpected recorder calls: %v", recorder.calls)
	}
}

func TestDeletePromptUseCase(t *testing.T) {
	repo := newMemoryPromptRepo()
	repo.files["notes"] = []byte(`{}`)
	repo.files["a.json"] = []byte(`{}`)
	notifier := &recordingNotifier{}
	mirror := &recordingMirror{}
	uc := NewDeletePromptUseCase(repo, PromptSideEffects{Notifier: notifier, Mirror: mirror}, logger.New("error"))
	ctx := context.Background()

	assertKind(t, uc.Execute(ctx, DeletePromptCommand{}), KindInvalidInput, "Missing filename")
	assertKind(t, uc.Execute(ctx, DeletePromptCommand{Filename: "missing.json"}), KindNotFound, "File not found")
	assertKind(t, uc.Execute(ctx, DeletePromptCommand{Filename: "../.."}), KindNotFound, "File not found")

	// delete does not require the .json suffix
	if err := uc.Execute(ctx, DeletePromptCommand{Filename: "notes"}); err != nil {
		t.Fatalf("Execute(notes) error = %v", err)
	}
	if err := uc.Execute(ctx, DeletePromptCommand{Filename: "../../a.json"}); err != nil {
		t.Fatalf("Execute(a.json) error = %v", err)
	}
	if len(repo.files) != 0 {
		t.Fatalf("expected all files deleted, got %v", repo.files)
	}

	assertKind(t, uc.Execute(ctx, DeletePromptCommand{Filename: "a.json"}), KindNotFound, "File not found")

	if len(notifier.events) != 2 || notifier.events[1].Type != dto.PromptEventDeleted {
		t.Fatalf("unexpected notifications: %+v", notifier.events)
	}
	if len(mirror.deletes) != 2 || mirror.deletes[1] != "a.json" {
		t.Fatalf("unexpected mirror deletes: %v", mirror.deletes)
	}
}

func TestCheckPromptExistsUseCase(t *testing.T) {
	repo := newMemoryPromptRepo()
	repo.files["ab.json"] = []byte(`{}`)
	uc := NewCheckPromptExistsUseCase(repo, PromptSideEffects{}, logger.New("error"))
	ctx := context.Background()

	_, err := uc.Execute(ctx, "")
	assertKind(t, err, KindInvalidInput, "Filename parameter is missing")

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "ab.json", want: true},
		{raw: "a b!@#.json", want: false},
		{raw: "../assets/prompts/ab.json", want: false},
		{raw: "other.json", want: false},
		{raw: "..", want: false},
	}
	for _, tt := range tests {
		got, err := uc.Execute(ctx, tt.raw)
		if err != nil {
			t.Fatalf("Execute(%q) error = %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("Execute(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestListPromptsUseCase(t *testing.T) {
	repo := newMemoryPromptRepo()
	repo.files["b.json"] = []byte(`{}`)
	repo.files["a.json"] = []byte(`{}`)
	uc := NewListPromptsUseCase(repo, PromptSideEffects{}, logger.New("error"))

	names, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(names) != 2 || names[0] != "a.json" || names[1] != "b.json" {
		t.Fatalf("unexpected names: %v", names)
	}

	repo.listErr = errors.New("permission denied")
	_, err = uc.Execute(context.Background())
	assertKind(t, err, KindInternal, "Error listing prompts")
}

func TestKindOf(t *testing.T) {
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatal("expected plain errors to be internal")
	}
	wrapped := errors.Join(errors.New("ctx"), notFound("File not found"))
	if KindOf(wrapped) != KindNotFound {
		t.Fatal("expected wrapped kind to be found with errors.As")
	}
}
