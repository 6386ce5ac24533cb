package provider

import (
	"context"
	"errors"
	"testing"

	"kabyar/internal/domain"
	"kabyar/internal/domain/models"
)

// fakeProvider answers every chat with a fixed string and records the
// model it was asked for.
type fakeProvider struct {
	name      string
	lastModel string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Chat(_ context.Context, req *ChatRequest) (*ChatResponse, error) {
	f.lastModel = req.Model
	return &ChatResponse{Content: "ok", Model: req.Model}, nil
}

func (f *fakeProvider) Stream(_ context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	f.lastModel = req.Model
	ch := make(chan StreamChunk, 1)
	ch <- StreamChunk{Text: "ok"}
	close(ch)
	return ch, nil
}

type fakeCreator struct {
	created map[string]int
}

func (f *fakeCreator) Create(name string) (Provider, error) {
	if f.created == nil {
		f.created = make(map[string]int)
	}
	f.created[name]++
	return &fakeProvider{name: name}, nil
}

func userMessage(content string) []models.Message {
	return []models.Message{{ID: "m1", Role: models.RoleUser, Content: content}}
}

func TestGetRejectsUnknownProvider(t *testing.T) {
	r := NewRegistry(&fakeCreator{}, DefaultCatalog(), "")
	_, err := r.Get("alexa")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestGetCachesAdapters(t *testing.T) {
	fc := &fakeCreator{}
	r := NewRegistry(fc, DefaultCatalog(), "")

	first, err := r.Get(NameOpenAI)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := r.Get(NameOpenAI)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second {
		t.Error("second Get returned a different adapter instance")
	}
	if fc.created[NameOpenAI] != 1 {
		t.Errorf("adapter constructed %d times, want 1", fc.created[NameOpenAI])
	}
}

func TestEmptyProviderNameUsesDefault(t *testing.T) {
	r := NewRegistry(&fakeCreator{}, DefaultCatalog(), "")
	if r.DefaultProvider() != NameGrok {
		t.Fatalf("default provider = %q, want grok", r.DefaultProvider())
	}

	p, err := r.Get("")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name() != NameGrok {
		t.Errorf("adapter name = %q, want grok", p.Name())
	}
}

func TestChatResolvesTierToConcreteModel(t *testing.T) {
	r := NewRegistry(&fakeCreator{}, DefaultCatalog(), "")

	resp, err := r.Chat(context.Background(), NameGrok, userMessage("hi"), TierFast)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Model != "grok-4-1-fast-reasoning" {
		t.Errorf("model = %q, want the fast-tier grok model", resp.Model)
	}
}

func TestChatRejectsSystemOnlyMessages(t *testing.T) {
	r := NewRegistry(&fakeCreator{}, DefaultCatalog(), "")

	msgs := []models.Message{{ID: "s", Role: models.RoleSystem, Content: "be nice"}}
	_, err := r.Chat(context.Background(), NameGrok, msgs, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for system-only history, got %v", err)
	}

	_, err = r.Chat(context.Background(), NameGrok, nil, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for empty history, got %v", err)
	}
}

func TestStreamDeliversChunks(t *testing.T) {
	r := NewRegistry(&fakeCreator{}, DefaultCatalog(), "")

	ch, err := r.Stream(context.Background(), NameThesys, userMessage("hi"), "")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	chunk, ok := <-ch
	if !ok || chunk.Text != "ok" {
		t.Errorf("chunk = %+v ok=%v, want text ok", chunk, ok)
	}
}

func TestSplitSystem(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleSystem, Content: "a"},
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleSystem, Content: "b"},
		{Role: models.RoleAssistant, Content: "hello"},
	}
	system, turns := splitSystem(msgs)
	if system != "a\n\nb" {
		t.Errorf("system = %q", system)
	}
	if len(turns) != 2 || turns[0].Role != models.RoleUser || turns[1].Role != models.RoleAssistant {
		t.Errorf("turns = %+v", turns)
	}
}
