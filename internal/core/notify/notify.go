// Package notify delivers user-facing success and error messages.
package notify

import (
	"context"
	"sync"

	"kls/pkg/logger"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Sink receives notifications. Implementations must not block the caller.
type Sink interface {
	Notify(ctx context.Context, kind Kind, message string)
}

// LogSink writes notifications to the structured log.
type LogSink struct{}

// Notify implements Sink.
func (LogSink) Notify(ctx context.Context, kind Kind, message string) {
	switch kind {
	case KindError:
		logger.Error(ctx, message, "notification", kind)
	case KindWarning:
		logger.Warn(ctx, message, "notification", kind)
	default:
		logger.Info(ctx, message, "notification", kind)
	}
}

// Message is one recorded notification.
type Message struct {
	Kind    Kind
	Message string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Notify implements Sink.
func (r *Recorder) Notify(_ context.Context, kind Kind, message string) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Kind: kind, Message: message})
	r.mu.Unlock()
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}
