package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/csvboard/internal/auth"
	"github.com/Makepad-fr/csvboard/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to HTTP data sources",
	}

	var expires time.Duration
	login := &cobra.Command{
		Use:   "login",
		Short: "Read a token from stdin and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), "Paste your token: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && strings.TrimSpace(line) == "" {
				return fmt.Errorf("read token: %w", err)
			}
			var exp *time.Time
			if expires > 0 {
				t := time.Now().Add(expires)
				exp = &t
			}
			if err := auth.Set(line, exp); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK("logged in")
			return nil
		},
	}
	login.Flags().DurationVar(&expires, "expires-in", 0, "record an expiry this far in the future")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, _ := auth.Get()
			if ti != nil && ti.Source == auth.FromEnv {
				ui.OK("token is provided by " + auth.EnvToken + " (nothing to delete)")
				return nil
			}
			if err := auth.Delete(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK("logged out")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ti, err := auth.Get()
			if err != nil {
				return err
			}
			if ti == nil {
				fmt.Fprintln(out, ui.C(ui.Current().Muted, "not logged in"))
				fmt.Fprintln(out, "Run: csvboard auth login")
				return nil
			}
			fmt.Fprintf(out, "source: %s\n", ti.Source)
			if ti.ExpiresAt != nil {
				exp := ti.ExpiresAt.UTC().Format(time.RFC3339)
				if ti.Expired(time.Now()) {
					exp += " " + ui.C(ui.Current().Error, "(expired, not sent)")
				}
				fmt.Fprintf(out, "expires: %s\n", exp)
			} else {
				fmt.Fprintln(out, "expires: (unknown)")
			}
			fmt.Fprintln(out, "env override:", auth.EnvToken)
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Decode the token payload locally (unsigned)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ti, _ := auth.Get()
			if ti == nil {
				return usageErr("not logged in. Run: csvboard auth login")
			}
			if p, ok := auth.Payload(ti.Token); ok {
				fmt.Fprintln(out, "JWT payload:")
				fmt.Fprintln(out, p)
				return nil
			}
			fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
			fmt.Fprintln(out, "source:", ti.Source)
			return nil
		},
	}

	cmd.AddCommand(login, logout, status, whoami)
	return cmd
}
