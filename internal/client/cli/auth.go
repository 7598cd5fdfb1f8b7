package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/studycompanion/internal/client/session"
	"github.com/dmitrijs2005/studycompanion/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getYesNo      = GetYesNo
	getPassword   = GetPassword
)

func (a *App) readCredentials() (string, []byte, bool, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, false, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, false, err
	}

	remember, err := getYesNo(a.reader, "Remember me?", a.out)
	if err != nil {
		common.WipeByteArray(password)
		return "", nil, false, err
	}
	return userName, password, remember, nil
}

// Register prompts for a username, a password and the remember flag, then
// creates the account and signs it in.
func (a *App) Register(ctx context.Context) error {
	userName, password, remember, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.sessions.Register(ctx, userName, password, remember)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrDuplicateUsername):
			fmt.Fprintln(a.out, "Username already exists")
		case errors.Is(err, session.ErrValidation):
			fmt.Fprintln(a.out, "Username and password are required")
		default:
			fmt.Fprintln(a.out, "Registration failed:", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", id.Username)
	return nil
}

// Login prompts for credentials and signs the user in.
func (a *App) Login(ctx context.Context) error {
	userName, password, remember, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.sessions.Login(ctx, session.Credentials{Username: userName, Password: password}, remember)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			fmt.Fprintln(a.out, "Invalid username or password")
		case errors.Is(err, session.ErrValidation):
			fmt.Fprintln(a.out, "Username and password are required")
		default:
			fmt.Fprintln(a.out, "Login failed:", err)
		}
		return err
	}

	if id.IsAdmin {
		fmt.Fprintf(a.out, "Logged in as %s (admin)\n", id.Username)
	} else {
		fmt.Fprintf(a.out, "Logged in as %s\n", id.Username)
	}
	return nil
}

// Logout clears the session and the last summary.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}
	a.setSummary(nil)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	id := a.sessions.Current()
	if id == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	role := "user"
	if id.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s (%s), logged in %s, session %s\n",
		id.Username, role, id.LoginTime.Format(time.RFC3339), a.sessions.Tier())
	return nil
}

// Users lists registered accounts. Admin only.
func (a *App) Users(ctx context.Context) error {
	users, err := a.sessions.Users(ctx)
	if err != nil {
		if errors.Is(err, session.ErrForbidden) {
			fmt.Fprintln(a.out, "Admin access required")
		}
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No registered users")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tADMIN\tREGISTERED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%t\t%s\n", u.Username, u.IsAdmin, u.RegisteredAt.Format(time.DateOnly))
	}
	return w.Flush()
}
