package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vd09-projects/relctx/internal/i18n"
	"github.com/vd09-projects/relctx/internal/notify"
)

var (
	notifyType  string
	notifyURL   string
	notifyText  string
	notifyDebug bool
	notifyOpen  bool
)

var notifyCmd = &cobra.Command{
	Use:   "notify <message>",
	Short: "Publish a notification",
	Long: `Publish a notification to the terminal, the log and the notification
history.

With --url the notification carries an action that opens the link; --open
performs it right away. --debug publishes an error notification only when
the configured gateway host ends in "dev" or "prd".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNotify,
}

func init() {
	notifyCmd.Flags().StringVarP(&notifyType, "type", "t", "info", "Notification type: info, warning or error")
	notifyCmd.Flags().StringVar(&notifyURL, "url", "", "Link attached to the notification")
	notifyCmd.Flags().StringVar(&notifyText, "text", "", "Label of the link action (default: Open)")
	notifyCmd.Flags().BoolVar(&notifyDebug, "debug", false, "Publish as a gateway-gated debug notification")
	notifyCmd.Flags().BoolVar(&notifyOpen, "open", false, "Perform the link action after publishing")
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, args []string) error {
	e := envOf(cmd)
	n, err := e.notifier(cmd)
	if err != nil {
		return err
	}
	msg := strings.Join(args, " ")

	var note *notify.Notification
	switch {
	case notifyDebug:
		note = n.Debug(msg)
		if note == nil {
			e.log.Debug("debug notification suppressed", "gateway", e.cfg.Gateway.Host)
			return nil
		}
	case notifyURL != "":
		if notifyText == "" {
			note = n.LinkInfo(msg, i18n.Get("notification.openButton"), notifyURL)
		} else {
			note = n.InfoAndAction(msg, notifyText, notifyURL)
		}
	default:
		typ, err := notify.ParseType(notifyType)
		if err != nil {
			return err
		}
		switch typ {
		case notify.Warning:
			note = n.Warn(msg)
		case notify.Error:
			note = n.Error(msg)
		case notify.Information:
			note = n.Info(msg)
		default:
			return fmt.Errorf("notification type %s cannot be published directly", typ)
		}
	}

	if notifyOpen {
		actions := note.Actions()
		if len(actions) == 0 {
			return errors.New("--open needs --url")
		}
		if err := note.Perform(cmd.Context(), actions[0]); err != nil {
			return err
		}
	}
	return n.Pool().Wait()
}

// notifier wires a bus with the terminal, log and history listeners.
func (e *env) notifier(cmd *cobra.Command) (*notify.Notifier, error) {
	bus := notify.NewBus()
	bus.Subscribe(notify.WriterListener{W: cmd.OutOrStdout()})
	bus.Subscribe(notify.LogListener{Log: e.log})
	if path := e.historyPath(); path != "" {
		h, err := notify.NewHistoryListener(path, e.log)
		if err != nil {
			return nil, err
		}
		bus.Subscribe(h)
	}

	var browser notify.Browser = notify.NewSystemBrowser()
	if e.cfg.Notification.Browser == "print" {
		browser = notify.PrintBrowser{W: cmd.OutOrStdout()}
	}
	return notify.NewNotifier(bus, notify.Options{
		Group:       e.cfg.Notification.Group,
		GatewayHost: e.cfg.Gateway.Host,
		Bundle:      i18n.Default(),
		Browser:     browser,
		Pool:        notify.NewPool(cmd.Context(), e.cfg.Notification.Workers, e.log),
		Logger:      e.log,
	}), nil
}

// historyPath resolves the history file against the repository root.
func (e *env) historyPath() string {
	p := e.cfg.Notification.History
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(e.root, p)
}
