// Package relay forwards provider stream chunks to a client while
// tracking one generation lifecycle per conversation thread. It owns the
// cancellation semantics: an explicit stop rewrites the in-flight
// assistant message to the stop sentinel immediately, a newer send
// supersedes an older one, and only a naturally-completed generation is
// ever committed to thread history.
package relay

import (
	"context"
	"errors"
	"strings"
	"sync"

	"kabyar/internal/provider"
)

// State is the generation lifecycle state of a session.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
	StateCompleted
	StateStopped
	StateErrored
)

// String returns the state name, for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// StopSentinel replaces the in-flight assistant message when the user
// stops a generation. Partial text must never survive a stop.
const StopSentinel = "[[STOPPED]]"

// ErroredMessage replaces the assistant message when a generation fails
// for any reason other than an abort.
const ErroredMessage = "Something went wrong while generating a response. Please try again."

// DeliverFunc forwards one text chunk to the client. Returning an error
// ends the generation as errored.
type DeliverFunc func(text string) error

// CommitFunc persists a fully-completed assistant message. It is invoked
// at most once per Send, and never for stopped, superseded, aborted, or
// errored generations.
type CommitFunc func(text string)

// Session serializes generations for one thread. Each Send is assigned a
// monotonically increasing generation id; a later Send supersedes an
// earlier one, whose output is discarded entirely.
type Session struct {
	mu      sync.Mutex
	state   State
	gen     uint64
	stopped bool // stop requested for the current generation
	cancel  context.CancelFunc
	final   string
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// Send consumes src until natural close, stop, supersession, abort, or
// error, forwarding each chunk through deliver in arrival order. On
// natural close the accumulated text becomes the final message exactly
// once and commit is invoked with it. Send blocks until the generation
// reaches a terminal state.
func (s *Session) Send(ctx context.Context, src <-chan provider.StreamChunk, deliver DeliverFunc, commit CommitFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.gen++
	id := s.gen
	if s.cancel != nil {
		// Supersede any in-flight generation; its loop will observe the
		// id mismatch and return without mutating session state.
		s.cancel()
	}
	s.cancel = cancel
	s.stopped = false
	s.state = StateSending
	s.mu.Unlock()

	var buf strings.Builder
	for {
		select {
		case <-ctx.Done():
			return s.finishAborted(id)

		case chunk, ok := <-src:
			if !ok {
				return s.finishCompleted(id, buf.String(), commit)
			}
			if chunk.Err != nil {
				return s.finishErrored(id, chunk.Err)
			}

			// Per-chunk rule: if this generation was stopped or
			// superseded, cancel the reader and mutate nothing further,
			// even for chunks already buffered.
			if s.stale(id) {
				cancel()
				return nil
			}

			s.markStreaming(id)
			buf.WriteString(chunk.Text)

			if deliver != nil {
				if err := deliver(chunk.Text); err != nil {
					return s.finishErrored(id, err)
				}
			}
		}
	}
}

// Stop aborts the in-flight generation and rewrites its message to the
// stop sentinel. It returns immediately without waiting on network
// teardown; the read loop observes the stop flag and exits on its own.
// A no-op if no generation is in flight.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSending && s.state != StateStreaming {
		return
	}

	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.final = StopSentinel
	s.state = StateStopped
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FinalMessage returns the finalized assistant message: the accumulated
// text after completion, the stop sentinel after a stop, or the generic
// failure string after an error. Empty while a generation is in flight.
func (s *Session) FinalMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final
}

func (s *Session) stale(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen != id || s.stopped
}

func (s *Session) markStreaming(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == id && s.state == StateSending {
		s.state = StateStreaming
	}
}

// finishCompleted applies the accumulated text as the final message,
// unless this generation was stopped or superseded in the meantime. The
// id+state check under the lock is what prevents a double-write when an
// abort races natural completion.
func (s *Session) finishCompleted(id uint64, text string, commit CommitFunc) error {
	s.mu.Lock()
	if s.gen != id || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.state = StateCompleted
	s.final = text
	s.cancel = nil
	s.mu.Unlock()

	if commit != nil {
		commit(text)
	}
	return nil
}

// finishAborted handles context cancellation: client disconnect, an
// explicit Stop (which already wrote the sentinel), or supersession.
// Aborts are not errors and mutate nothing here.
func (s *Session) finishAborted(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == id && !s.stopped && (s.state == StateSending || s.state == StateStreaming) {
		// Client went away mid-stream; nothing to keep.
		s.state = StateIdle
		s.final = ""
		s.cancel = nil
	}
	return nil
}

func (s *Session) finishErrored(id uint64, err error) error {
	if errors.Is(err, context.Canceled) {
		return s.finishAborted(id)
	}

	s.mu.Lock()
	if s.gen != id || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.state = StateErrored
	s.final = ErroredMessage
	s.cancel = nil
	s.mu.Unlock()
	return err
}
