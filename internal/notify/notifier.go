package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vd09-projects/relctx/internal/i18n"
	"github.com/vd09-projects/relctx/internal/update"
)

const DefaultGroup = "relctx"

type Options struct {
	Group string
	// GatewayHost gates Debug: only hosts ending in "dev" or "prd" see it.
	GatewayHost string
	Bundle      *i18n.Bundle
	Browser     Browser
	Pool        *Pool
	Logger      *slog.Logger
}

// Notifier builds notifications and publishes them on a Bus.
type Notifier struct {
	bus     *Bus
	group   string
	host    string
	bundle  *i18n.Bundle
	browser Browser
	pool    *Pool
	log     *slog.Logger
}

func NewNotifier(bus *Bus, opts Options) *Notifier {
	n := &Notifier{
		bus:     bus,
		group:   opts.Group,
		host:    opts.GatewayHost,
		bundle:  opts.Bundle,
		browser: opts.Browser,
		pool:    opts.Pool,
		log:     opts.Logger,
	}
	if n.group == "" {
		n.group = DefaultGroup
	}
	if n.bundle == nil {
		n.bundle = i18n.Default()
	}
	if n.browser == nil {
		n.browser = NewSystemBrowser()
	}
	if n.log == nil {
		n.log = slog.Default()
	}
	if n.pool == nil {
		n.pool = NewPool(context.Background(), 1, n.log)
	}
	return n
}

func (n *Notifier) Pool() *Pool { return n.pool }

func (n *Notifier) Info(content string) *Notification {
	return n.publish(n.build(content, Information))
}

func (n *Notifier) Warn(content string) *Notification {
	return n.publish(n.build(content, Warning))
}

func (n *Notifier) Error(content string) *Notification {
	return n.publish(n.build(content, Error))
}

// LinkInfo is an information notification whose action opens url.
func (n *Notifier) LinkInfo(content, text, url string) *Notification {
	note := n.build(content, Information)
	note.AddAction(n.browse(text, url))
	return n.publish(note)
}

// InfoAndAction is LinkInfo with a display label for the action.
func (n *Notifier) InfoAndAction(content, display, url string) *Notification {
	note := n.build(content, Information)
	note.AddAction(n.browse(display, url))
	return n.publish(note)
}

// Debug publishes an error notification, but only against dev and prd
// gateways. It returns nil when nothing was published.
func (n *Notifier) Debug(content string) *Notification {
	if !strings.HasSuffix(n.host, "dev") && !strings.HasSuffix(n.host, "prd") {
		return nil
	}
	return n.publish(n.build(content, Error))
}

// UpdateNotification offers to install version. Both actions expire the
// notification; Install runs on the pool.
func (n *Notifier) UpdateNotification(installer update.Installer, version string) *Notification {
	note := n.build(n.bundle.Get("notification.update.message"), IDEUpdate)
	note.AddAction(Action{
		Label:    n.bundle.Get("notification.installButton"),
		Expiring: true,
		Run: func(context.Context) error {
			n.pool.Submit("install update", func(ctx context.Context) error {
				if err := installer.Install(ctx, version); err != nil {
					n.Error(n.bundle.Getf("notification.update.failed", err))
					return err
				}
				n.Info(n.bundle.Getf("notification.update.installed", version))
				return nil
			})
			return nil
		},
	})
	note.AddAction(Action{
		Label:    n.bundle.Get("notification.hideButton"),
		Expiring: true,
	})
	return n.publish(note)
}

func (n *Notifier) build(content string, typ Type) *Notification {
	return newNotification(n.group, n.bundle.Get("notification.group"), content, typ)
}

func (n *Notifier) browse(label, url string) Action {
	return Action{
		Label: label,
		Run: func(ctx context.Context) error {
			return n.browser.Open(ctx, url)
		},
	}
}

func (n *Notifier) publish(note *Notification) *Notification {
	n.bus.Publish(note)
	return note
}
