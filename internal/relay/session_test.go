package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"kabyar/internal/provider"
)

func chunkChan(texts ...string) chan provider.StreamChunk {
	ch := make(chan provider.StreamChunk, len(texts))
	for _, t := range texts {
		ch <- provider.StreamChunk{Text: t}
	}
	close(ch)
	return ch
}

func waitDone(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("send did not finish")
	}
}

func TestSendConcatenatesChunksInOrder(t *testing.T) {
	s := NewSession()

	var delivered []string
	var committed []string

	err := s.Send(context.Background(), chunkChan("Hel", "lo, ", "world!"),
		func(text string) error {
			delivered = append(delivered, text)
			return nil
		},
		func(text string) {
			committed = append(committed, text)
		})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := s.FinalMessage(); got != "Hello, world!" {
		t.Errorf("final message = %q, want %q", got, "Hello, world!")
	}
	if s.State() != StateCompleted {
		t.Errorf("state = %v, want %v", s.State(), StateCompleted)
	}
	if len(delivered) != 3 || delivered[0] != "Hel" || delivered[1] != "lo, " || delivered[2] != "world!" {
		t.Errorf("delivered = %v", delivered)
	}
	if len(committed) != 1 || committed[0] != "Hello, world!" {
		t.Errorf("committed = %v, want exactly one full message", committed)
	}
}

func TestStopReplacesPartialTextWithSentinel(t *testing.T) {
	s := NewSession()

	var delivered []string
	commits := 0

	// Stop fires after the second chunk; the remaining chunks sit
	// buffered in the channel and must not reach the transcript.
	err := s.Send(context.Background(), chunkChan("Hel", "lo, ", "world", "!"),
		func(text string) error {
			delivered = append(delivered, text)
			if len(delivered) == 2 {
				s.Stop()
			}
			return nil
		},
		func(string) { commits++ })
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := s.FinalMessage(); got != StopSentinel {
		t.Errorf("final message = %q, want stop sentinel", got)
	}
	if s.State() != StateStopped {
		t.Errorf("state = %v, want %v", s.State(), StateStopped)
	}
	if len(delivered) != 2 {
		t.Errorf("delivered %d chunks after stop, want 2", len(delivered))
	}
	if commits != 0 {
		t.Errorf("commit called %d times for a stopped generation", commits)
	}
}

func TestStopThenLateCompletionDoesNotOverwriteSentinel(t *testing.T) {
	s := NewSession()

	src := make(chan provider.StreamChunk)
	seen := make(chan struct{}, 1)
	done := make(chan struct{})
	commits := 0

	go func() {
		defer close(done)
		s.Send(context.Background(), src, func(string) error {
			seen <- struct{}{}
			return nil
		}, func(string) { commits++ })
	}()

	src <- provider.StreamChunk{Text: "partial "}
	<-seen

	s.Stop()
	// The upstream close arrives after the stop already finalized the
	// message; it must be discarded.
	close(src)
	waitDone(t, done)

	if got := s.FinalMessage(); got != StopSentinel {
		t.Errorf("final message = %q, want stop sentinel", got)
	}
	if s.State() != StateStopped {
		t.Errorf("state = %v, want %v", s.State(), StateStopped)
	}
	if commits != 0 {
		t.Errorf("commit called %d times, want 0", commits)
	}
}

func TestSecondSendSupersedesFirst(t *testing.T) {
	s := NewSession()

	src1 := make(chan provider.StreamChunk)
	src2 := make(chan provider.StreamChunk)
	seen1 := make(chan struct{}, 1)
	seen2 := make(chan struct{}, 1)
	done1 := make(chan struct{})
	done2 := make(chan struct{})
	var committed1, committed2 []string

	go func() {
		defer close(done1)
		s.Send(context.Background(), src1, func(string) error {
			seen1 <- struct{}{}
			return nil
		}, func(text string) { committed1 = append(committed1, text) })
	}()

	src1 <- provider.StreamChunk{Text: "old answer"}
	<-seen1

	go func() {
		defer close(done2)
		s.Send(context.Background(), src2, func(string) error {
			seen2 <- struct{}{}
			return nil
		}, func(text string) { committed2 = append(committed2, text) })
	}()

	src2 <- provider.StreamChunk{Text: "new answer"}
	<-seen2

	// The first generation's completion arrives after it was superseded.
	close(src1)
	waitDone(t, done1)

	close(src2)
	waitDone(t, done2)

	if len(committed1) != 0 {
		t.Errorf("superseded generation committed %v", committed1)
	}
	if len(committed2) != 1 || committed2[0] != "new answer" {
		t.Errorf("committed2 = %v, want the second generation's text", committed2)
	}
	if got := s.FinalMessage(); got != "new answer" {
		t.Errorf("final message = %q, want %q", got, "new answer")
	}
	if s.State() != StateCompleted {
		t.Errorf("state = %v, want %v", s.State(), StateCompleted)
	}
}

func TestErrorChunkFinalizesWithFailureMessage(t *testing.T) {
	s := NewSession()

	src := make(chan provider.StreamChunk, 2)
	src <- provider.StreamChunk{Text: "part"}
	src <- provider.StreamChunk{Err: errors.New("upstream reset")}
	close(src)

	commits := 0
	err := s.Send(context.Background(), src, nil, func(string) { commits++ })
	if err == nil {
		t.Fatal("send returned nil, want upstream error")
	}

	if got := s.FinalMessage(); got != ErroredMessage {
		t.Errorf("final message = %q, want generic failure text", got)
	}
	if s.State() != StateErrored {
		t.Errorf("state = %v, want %v", s.State(), StateErrored)
	}
	if commits != 0 {
		t.Errorf("commit called %d times for an errored generation", commits)
	}
}

func TestClientAbortDiscardsSilently(t *testing.T) {
	s := NewSession()

	ctx, cancel := context.WithCancel(context.Background())
	src := make(chan provider.StreamChunk)
	seen := make(chan struct{}, 1)
	done := make(chan struct{})
	commits := 0

	go func() {
		defer close(done)
		if err := s.Send(ctx, src, func(string) error {
			seen <- struct{}{}
			return nil
		}, func(string) { commits++ }); err != nil {
			t.Errorf("send after abort: %v", err)
		}
	}()

	src <- provider.StreamChunk{Text: "part"}
	<-seen

	cancel()
	waitDone(t, done)

	if got := s.FinalMessage(); got != "" {
		t.Errorf("final message = %q after client abort, want empty", got)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want %v", s.State(), StateIdle)
	}
	if commits != 0 {
		t.Errorf("commit called %d times after abort", commits)
	}
}

func TestStopWithoutInFlightGenerationIsNoop(t *testing.T) {
	s := NewSession()
	s.Stop()
	if s.State() != StateIdle {
		t.Errorf("state = %v, want %v", s.State(), StateIdle)
	}
	if s.FinalMessage() != "" {
		t.Errorf("final message = %q, want empty", s.FinalMessage())
	}
}

func TestManagerReturnsSameSessionPerThread(t *testing.T) {
	m := NewManager()
	a := m.Session("t1")
	b := m.Session("t1")
	c := m.Session("t2")
	if a != b {
		t.Error("same thread returned different sessions")
	}
	if a == c {
		t.Error("different threads share a session")
	}
}

func TestManagerStopUnknownThread(t *testing.T) {
	m := NewManager()
	if m.Stop("missing") {
		t.Error("stop reported a session for an unknown thread")
	}
}

func TestManagerRemoveStopsSession(t *testing.T) {
	m := NewManager()
	s := m.Session("t1")

	var delivered []string
	// Leave a generation in flight, then remove the thread.
	src := make(chan provider.StreamChunk)
	seen := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Send(context.Background(), src, func(text string) error {
			delivered = append(delivered, text)
			seen <- struct{}{}
			return nil
		}, nil)
	}()

	src <- provider.StreamChunk{Text: "part"}
	<-seen

	m.Remove("t1")
	waitDone(t, done)

	if s.State() != StateStopped {
		t.Errorf("state after remove = %v, want %v", s.State(), StateStopped)
	}
	if m.Session("t1") == s {
		t.Error("removed thread returned the old session")
	}
}
