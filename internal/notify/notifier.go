package notify

import (
	"sync"
	"time"

	"storefront/internal/events"

	"github.com/google/uuid"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityPrice   Severity = "price"
)

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	maxVisible = 5
	defaultTTL = 4000 * time.Millisecond
)

// Notifier is a capped queue of ephemeral user messages. At most 5 are live
// at once (oldest dropped first) and each expires 4s after creation unless
// dismissed earlier.
type Notifier struct {
	mu        sync.Mutex
	items     []Notification
	timers    map[string]*time.Timer
	ttl       time.Duration
	publisher *events.Publisher
	onChange  func([]Notification)
}

func New(publisher *events.Publisher) *Notifier {
	return &Notifier{
		timers:    make(map[string]*time.Timer),
		ttl:       defaultTTL,
		publisher: publisher,
	}
}

// OnChange registers a callback invoked with the current queue after every
// mutation. Used by display surfaces; may be nil.
func (n *Notifier) OnChange(fn func([]Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

// Notify enqueues a notification and returns its id.
func (n *Notifier) Notify(message string, severity Severity) string {
	notification := Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	n.items = append(n.items, notification)
	if len(n.items) > maxVisible {
		for _, dropped := range n.items[:len(n.items)-maxVisible] {
			n.stopTimer(dropped.ID)
		}
		n.items = n.items[len(n.items)-maxVisible:]
	}
	n.timers[notification.ID] = time.AfterFunc(n.ttl, func() {
		n.Dismiss(notification.ID)
	})
	n.notifyChanged()
	n.mu.Unlock()

	n.publisher.Publish("notification.created", notification.ID, map[string]interface{}{
		"message":  message,
		"severity": string(severity),
	})

	return notification.ID
}

// Dismiss removes a notification immediately. Unknown ids are ignored.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopTimer(id)
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			n.notifyChanged()
			return
		}
	}
}

// Notifications returns the live queue, oldest first.
func (n *Notifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.items))
	copy(out, n.items)
	return out
}

// Stop cancels all expiry timers and clears the queue.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
	n.items = nil
}

// callers hold n.mu
func (n *Notifier) stopTimer(id string) {
	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}
}

// callers hold n.mu
func (n *Notifier) notifyChanged() {
	if n.onChange != nil {
		snapshot := make([]Notification, len(n.items))
		copy(snapshot, n.items)
		n.onChange(snapshot)
	}
}
