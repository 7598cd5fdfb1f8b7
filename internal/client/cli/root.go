package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if id := a.sessions.Current(); id != nil {
		parts = append(parts, id.Username)
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s) ", strings.Join(parts, " "))
}

// Root prints the banner and runs the REPL on the app's reader.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Study Companion (type 'help' for commands)")
	if id := a.sessions.Current(); id != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n", id.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
