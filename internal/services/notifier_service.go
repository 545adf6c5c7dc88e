package services

import (
	"log"
	"sync"

	"github.com/mailpilot/console/internal/state"
)

// TriggerPolicy decides whether a notification kind is user-enabled
type TriggerPolicy interface {
	TriggerEnabled(kind string) bool
}

// NotifierServiceImpl implements Notifier and bridges store changes to
// transient alerts. It watches the state store: a log push carrying a
// notification kind surfaces an alert only when the user-enabled trigger
// for that kind allows it.
type NotifierServiceImpl struct {
	policy TriggerPolicy
	logger *log.Logger // Optional - for debug logging

	mu       sync.RWMutex
	handlers []func(Notification)
}

// NewNotifierService creates a notifier gated by policy (may be nil, in
// which case every kind is surfaced)
func NewNotifierService(policy TriggerPolicy) *NotifierServiceImpl {
	return &NotifierServiceImpl{policy: policy}
}

// SetLogger sets the logger for debug output
func (s *NotifierServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// OnNotification registers a handler for surfaced notifications
func (s *NotifierServiceImpl) OnNotification(fn func(Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Notify surfaces one notification to all registered handlers
func (s *NotifierServiceImpl) Notify(n Notification) {
	if s.logger != nil {
		s.logger.Printf("notify [%s] %s", n.Level, n.Message)
	}
	s.mu.RLock()
	handlers := s.handlers
	s.mu.RUnlock()
	for _, fn := range handlers {
		fn(n)
	}
}

// WatchStore subscribes to the state store, surfacing alerts for log
// pushes whose notification kind passes the user's triggers
func (s *NotifierServiceImpl) WatchStore(store *state.Store) {
	store.Watch(func(c state.Change) {
		if c.Kind != state.ChangeActivity || c.NotificationType == "" || c.Entry == nil {
			return
		}
		if s.policy != nil && !s.policy.TriggerEnabled(c.NotificationType) {
			return
		}
		s.Notify(Notification{
			Level:   NotifyInfo,
			Kind:    c.NotificationType,
			Message: c.Entry.Message,
		})
	})
}
