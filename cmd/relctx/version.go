package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vd09-projects/relctx/internal/i18n"
	"github.com/vd09-projects/relctx/internal/update"
	"github.com/vd09-projects/relctx/internal/version"
)

var (
	versionCheck   bool
	versionInstall bool
	versionLatest  string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and optionally offer an update",
	Long: `Print the relctx version.

With --check the version is compared against --latest (or update.latest
from the config) and an update notification is published when it is newer.
--install also performs the notification's Install action, which runs
"go install" for the configured module.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Compare against the latest known version")
	versionCmd.Flags().BoolVar(&versionInstall, "install", false, "Install the newer version (implies --check)")
	versionCmd.Flags().StringVar(&versionLatest, "latest", "", "Latest available version (default: update.latest)")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	e := envOf(cmd)
	current := version.Current()
	fmt.Fprintln(cmd.OutOrStdout(), "relctx", current)
	if !versionCheck && !versionInstall {
		return nil
	}

	latest := versionLatest
	if latest == "" {
		latest = e.cfg.Update.Latest
	}
	if latest == "" {
		return fmt.Errorf("no latest version known: pass --latest or set update.latest")
	}
	newer, err := update.Newer(current, latest)
	if err != nil {
		return err
	}
	if !newer {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.Getf("notification.update.latest", current))
		return nil
	}

	n, err := e.notifier(cmd)
	if err != nil {
		return err
	}
	note := n.UpdateNotification(update.NewGoInstaller(e.cfg.Update.Module, cmd.ErrOrStderr(), e.log), latest)
	if !versionInstall {
		return nil
	}
	if err := note.Perform(cmd.Context(), i18n.Get("notification.installButton")); err != nil {
		return err
	}
	return n.Pool().Wait()
}
