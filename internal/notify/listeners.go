package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vd09-projects/relctx/internal/stream"
)

// WriterListener prints one line per notification, e.g.
// "[warning] relctx: disk almost full (actions: Open)".
type WriterListener struct {
	W io.Writer
}

func (l WriterListener) Notify(n *Notification) {
	line := fmt.Sprintf("[%s] %s: %s", n.Type, n.Title, n.Content)
	if actions := n.Actions(); len(actions) > 0 {
		line += " (actions: " + strings.Join(actions, ", ") + ")"
	}
	fmt.Fprintln(l.W, line)
}

// LogListener forwards notifications to a structured logger.
type LogListener struct {
	Log *slog.Logger
}

func (l LogListener) Notify(n *Notification) {
	level := slog.LevelInfo
	switch n.Type {
	case Warning:
		level = slog.LevelWarn
	case Error:
		level = slog.LevelError
	}
	l.Log.Log(context.Background(), level, n.Content, "id", n.ID, "group", n.GroupID, "type", n.Type.String())
}

// HistoryEntry is the persisted form of a notification.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Group     string    `json:"group"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      Type      `json:"type"`
	Actions   []string  `json:"actions,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func Entry(n *Notification) HistoryEntry {
	return HistoryEntry{
		ID:        n.ID,
		Group:     n.GroupID,
		Title:     n.Title,
		Content:   n.Content,
		Type:      n.Type,
		Actions:   n.Actions(),
		CreatedAt: n.CreatedAt.UTC(),
	}
}

// HistoryListener appends every notification to a JSONL file.
type HistoryListener struct {
	em  stream.Emitter[HistoryEntry]
	log *slog.Logger
}

func NewHistoryListener(path string, log *slog.Logger) (*HistoryListener, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &HistoryListener{em: stream.NewJSONLEmitter[HistoryEntry](path, nil, false), log: log}, nil
}

func (l *HistoryListener) Notify(n *Notification) {
	if err := l.em.EmitOne(Entry(n)); err != nil {
		l.log.Warn("notification history write failed", "id", n.ID, "error", err)
	}
}

// ReadHistory returns the stored notifications, oldest first. A missing
// file is an empty history.
func ReadHistory(path string) ([]HistoryEntry, error) {
	r, err := stream.NewJSONLReader[HistoryEntry](path, nil)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer r.Close()
	return r.ReadAll()
}
