// Package notify publishes user notifications on an in-process bus and runs
// their actions (open a link, install an update) on a bounded worker pool.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrExpired  = errors.New("notification expired")
	ErrNoAction = errors.New("no such action")
)

type Type int

const (
	Information Type = iota
	Warning
	Error
	IDEUpdate
)

func (t Type) String() string {
	switch t {
	case Information:
		return "information"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case IDEUpdate:
		return "update"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType accepts the names printed by String plus "info" and "warn".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info", "information":
		return Information, nil
	case "warn", "warning":
		return Warning, nil
	case "error":
		return Error, nil
	case "update":
		return IDEUpdate, nil
	}
	return 0, fmt.Errorf("unknown notification type %q", s)
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Action is a clickable entry on a notification. Performing an expiring
// action expires the whole notification.
type Action struct {
	Label    string
	Expiring bool
	Run      func(ctx context.Context) error
}

type Notification struct {
	ID        string
	GroupID   string
	Title     string
	Content   string
	Type      Type
	CreatedAt time.Time

	mu      sync.Mutex
	actions []Action
	expired bool
}

func newNotification(group, title, content string, typ Type) *Notification {
	return &Notification{
		ID:        uuid.NewString(),
		GroupID:   group,
		Title:     title,
		Content:   content,
		Type:      typ,
		CreatedAt: time.Now(),
	}
}

func (n *Notification) AddAction(a Action) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.actions = append(n.actions, a)
}

// Actions returns the action labels in the order they were added.
func (n *Notification) Actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.actions))
	for _, a := range n.actions {
		out = append(out, a.Label)
	}
	return out
}

func (n *Notification) Expired() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expired
}

// Expire hides the notification; later actions fail with ErrExpired.
func (n *Notification) Expire() {
	n.mu.Lock()
	n.expired = true
	n.mu.Unlock()
}

// Perform runs the action with the given label.
func (n *Notification) Perform(ctx context.Context, label string) error {
	n.mu.Lock()
	if n.expired {
		n.mu.Unlock()
		return ErrExpired
	}
	var action *Action
	for i := range n.actions {
		if n.actions[i].Label == label {
			action = &n.actions[i]
			break
		}
	}
	if action == nil {
		n.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNoAction, label)
	}
	if action.Expiring {
		n.expired = true
	}
	run := action.Run
	n.mu.Unlock()

	if run == nil {
		return nil
	}
	return run(ctx)
}
