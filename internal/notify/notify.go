// Package notify delivers transient success/error notifications and
// confirmation prompts to the operator.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kinds of notification.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindConfirm = "confirm"
)

// Confirmation is a yes/no prompt.
type Confirmation struct {
	Title        string `json:"title"`
	Message      string `json:"message"`
	ConfirmLabel string `json:"confirm_label"`
	CancelLabel  string `json:"cancel_label"`
}

// Notification is one delivered message.
type Notification struct {
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is the notification service consumed by forms.
type Notifier interface {
	Success(ctx context.Context, title, message string)
	Error(ctx context.Context, title, message string)
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

// LogNotifier writes notifications to the structured log. Confirm answers Default.
type LogNotifier struct {
	logger  *zap.Logger
	Default bool
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *zap.Logger, confirmDefault bool) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger, Default: confirmDefault}
}

// Success implements Notifier.
func (n *LogNotifier) Success(_ context.Context, title, message string) {
	n.logger.Info("notification", zap.String("kind", KindSuccess), zap.String("title", title), zap.String("message", message))
}

// Error implements Notifier.
func (n *LogNotifier) Error(_ context.Context, title, message string) {
	n.logger.Warn("notification", zap.String("kind", KindError), zap.String("title", title), zap.String("message", message))
}

// Confirm implements Notifier.
func (n *LogNotifier) Confirm(_ context.Context, c Confirmation) (bool, error) {
	n.logger.Info("confirmation", zap.String("title", c.Title), zap.Bool("answer", n.Default))
	return n.Default, nil
}

// Recorder keeps every notification so it can be returned to the caller of a request.
type Recorder struct {
	mu     sync.Mutex
	items  []Notification
	answer bool
	now    func() time.Time
}

// NewRecorder returns a Recorder whose Confirm answers answer.
func NewRecorder(answer bool) *Recorder {
	return &Recorder{answer: answer, now: time.Now}
}

func (r *Recorder) add(kind, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: kind, Title: title, Message: message, At: r.now()})
}

// Success implements Notifier.
func (r *Recorder) Success(_ context.Context, title, message string) { r.add(KindSuccess, title, message) }

// Error implements Notifier.
func (r *Recorder) Error(_ context.Context, title, message string) { r.add(KindError, title, message) }

// Confirm implements Notifier.
func (r *Recorder) Confirm(_ context.Context, c Confirmation) (bool, error) {
	r.add(KindConfirm, c.Title, c.Message)
	return r.answer, nil
}

// Notifications returns a copy of what was recorded.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification of kind, if any.
func (r *Recorder) Last(kind string) (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].Kind == kind {
			return r.items[i], true
		}
	}
	return Notification{}, false
}

// Multi fans notifications out to several notifiers. Confirm asks the first one only.
type Multi []Notifier

// Success implements Notifier.
func (m Multi) Success(ctx context.Context, title, message string) {
	for _, n := range m {
		n.Success(ctx, title, message)
	}
}

// Error implements Notifier.
func (m Multi) Error(ctx context.Context, title, message string) {
	for _, n := range m {
		n.Error(ctx, title, message)
	}
}

// Confirm implements Notifier.
func (m Multi) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	if len(m) == 0 {
		return true, nil
	}
	return m[0].Confirm(ctx, c)
}
