package ctl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/studycompanion/internal/client/bootstrap"
	"github.com/dmitrijs2005/studycompanion/internal/client/session"
	"github.com/dmitrijs2005/studycompanion/internal/common"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Terminal access, replaceable in tests.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// promptPassword reads a password without echo from a terminal, or a single
// line from cmd's input otherwise.
func promptPassword(cmd *cobra.Command) ([]byte, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	defer fmt.Fprintln(cmd.ErrOrStderr())

	fd := int(os.Stdin.Fd())
	if cmd.InOrStdin() == os.Stdin && isTerminal(fd) {
		return readPassword(fd)
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func newWhoAmICmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the remembered user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				id := d.Sessions.Current()
				if id == nil {
					return ErrNotLoggedIn
				}
				printIdentity(cmd, id)
				return nil
			})
		},
	}
}

func printIdentity(cmd *cobra.Command, id *session.Identity) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "username:   %s\n", id.Username)
	fmt.Fprintf(out, "admin:      %t\n", id.IsAdmin)
	fmt.Fprintf(out, "logged in:  %s\n", id.LoginTime.Format(time.RFC3339))
}

func newLoginCmd(o *rootOptions) *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "login USER",
		Short: "Log in; the password is read from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				pw, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				defer common.WipeByteArray(pw)

				id, err := d.Sessions.Login(ctx, session.Credentials{Username: args[0], Password: pw}, remember)
				if err != nil {
					return err
				}
				printIdentity(cmd, id)
				warnTransient(cmd, d)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&remember, "remember", "r", false, "keep the session for later runs")
	return cmd
}

func newRegisterCmd(o *rootOptions) *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "register USER",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				pw, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				defer common.WipeByteArray(pw)

				id, err := d.Sessions.Register(ctx, args[0], pw, remember)
				if err != nil {
					return err
				}
				printIdentity(cmd, id)
				warnTransient(cmd, d)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&remember, "remember", "r", false, "keep the session for later runs")
	return cmd
}

// warnTransient tells the user a session without --remember ends with the
// process.
func warnTransient(cmd *cobra.Command, d *bootstrap.Deps) {
	if d.Sessions.Tier() == session.TierTransient {
		fmt.Fprintln(cmd.ErrOrStderr(), "session not remembered; use --remember to keep it")
	}
}

func newLogoutCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				if err := d.Sessions.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}
}
