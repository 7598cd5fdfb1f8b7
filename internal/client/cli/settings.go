package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/studycompanion/internal/client/endpoint"
)

// Settings prints the current endpoint configuration.
func (a *App) Settings(ctx context.Context) error {
	cfg := a.endpoint.Snapshot()

	fmt.Fprintln(a.out, "Backend URL:", cfg.BaseURL)
	if cfg.UseCustomEndpoint {
		fmt.Fprintf(a.out, "Custom endpoint: %s:%d\n", cfg.CustomHost, cfg.CustomPort)
	} else {
		fmt.Fprintln(a.out, "Custom endpoint: off")
	}
	fmt.Fprintln(a.out, "AI features:", cfg.Capability)
	if st := cfg.LastProbeResult; st != nil {
		fmt.Fprintf(a.out, "Last probe: %s, version %s", st.Status, st.Version)
		if st.Hostname != "" {
			fmt.Fprintf(a.out, ", host %s", st.Hostname)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

// Endpoint prompts for a custom host and port and switches to them.
func (a *App) Endpoint(ctx context.Context) error {
	cfg := a.endpoint.Snapshot()

	host, err := getSimpleText(a.reader, withDefault("Server IP or hostname", cfg.CustomHost), a.out)
	if err != nil {
		return err
	}
	if host == "" {
		host = cfg.CustomHost
	}

	port, err := getSimpleText(a.reader, withDefault("Server port", portString(cfg.CustomPort)), a.out)
	if err != nil {
		return err
	}
	if port == "" {
		port = portString(cfg.CustomPort)
	}

	if err := a.endpoint.UpdateConfiguration(ctx, host, port, true); err != nil {
		if errors.Is(err, endpoint.ErrValidation) {
			fmt.Fprintln(a.out, "Invalid endpoint:", err)
		} else {
			fmt.Fprintln(a.out, "Could not save endpoint:", err)
		}
		return err
	}

	fmt.Fprintln(a.out, "Backend URL:", a.endpoint.BaseURL())
	a.checkCapability(ctx)
	return nil
}

// ResetEndpoint switches back to the platform default URL.
func (a *App) ResetEndpoint(ctx context.Context) error {
	if err := a.endpoint.ResetToDefault(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not reset endpoint:", err)
		return err
	}
	fmt.Fprintln(a.out, "Backend URL:", a.endpoint.BaseURL())
	a.checkCapability(ctx)
	return nil
}

// Status probes the backend and prints what it reports.
func (a *App) Status(ctx context.Context) error {
	st, err := a.endpoint.ProbeCapability(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Backend unreachable:", err)
		a.setMode(ModeOffline)
		return err
	}

	fmt.Fprintf(a.out, "Status: %s\nVersion: %s\nAI powered: %t\n", st.Status, st.Version, st.AIPowered)
	if st.Hostname != "" {
		fmt.Fprintln(a.out, "Hostname:", st.Hostname)
	}
	if len(st.IPAddresses) > 0 {
		fmt.Fprintln(a.out, "Addresses:", strings.Join(st.IPAddresses, ", "))
	}
	if st.AIPowered {
		a.setMode(ModeOnline)
	} else {
		a.setMode(ModeDisabled)
	}
	return nil
}

func withDefault(prompt, def string) string {
	if def == "" {
		return prompt
	}
	return fmt.Sprintf("%s [%s]", prompt, def)
}

func portString(p int) string {
	if p == 0 {
		return ""
	}
	return strconv.Itoa(p)
}
