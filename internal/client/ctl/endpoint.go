package ctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studycompanion/internal/client/bootstrap"
	"github.com/spf13/cobra"
)

func newStatusCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				out := cmd.OutOrStdout()
				st, err := d.Endpoint.ProbeCapability(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "url:        %s\n", d.Endpoint.BaseURL())
				fmt.Fprintf(out, "status:     %s\n", st.Status)
				fmt.Fprintf(out, "version:    %s\n", st.Version)
				fmt.Fprintf(out, "ai_powered: %t\n", st.AIPowered)
				if st.Hostname != "" {
					fmt.Fprintf(out, "hostname:   %s\n", st.Hostname)
				}
				if len(st.IPAddresses) > 0 {
					fmt.Fprintf(out, "addresses:  %s\n", strings.Join(st.IPAddresses, ", "))
				}
				return nil
			})
		},
	}
}

func newEndpointCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Show or change the backend endpoint",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the endpoint configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				printEndpoint(cmd, d)
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set HOST PORT",
		Short: "Use a custom backend host and port",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				if err := d.Endpoint.UpdateConfiguration(ctx, args[0], args[1], true); err != nil {
					return err
				}
				printEndpoint(cmd, d)
				return nil
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Go back to the platform default endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				if err := d.Endpoint.ResetToDefault(ctx); err != nil {
					return err
				}
				printEndpoint(cmd, d)
				return nil
			})
		},
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}

func printEndpoint(cmd *cobra.Command, d *bootstrap.Deps) {
	out := cmd.OutOrStdout()
	cfg := d.Endpoint.Snapshot()

	fmt.Fprintf(out, "url:    %s\n", cfg.BaseURL)
	fmt.Fprintf(out, "custom: %t\n", cfg.UseCustomEndpoint)
	if cfg.CustomHost != "" {
		fmt.Fprintf(out, "host:   %s\n", cfg.CustomHost)
	}
	if cfg.CustomPort != 0 {
		fmt.Fprintf(out, "port:   %d\n", cfg.CustomPort)
	}
}
