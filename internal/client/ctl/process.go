package ctl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/studycompanion/internal/client/bootstrap"
	"github.com/dmitrijs2005/studycompanion/internal/client/client"
	"github.com/dmitrijs2005/studycompanion/internal/filex"
	"github.com/spf13/cobra"
)

const (
	maxTextBytes = 4 << 20
	maxPDFBytes  = 16 << 20
)

func newProcessCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Summarize study material",
	}

	text := &cobra.Command{
		Use:   "text FILE",
		Short: "Summarize a text file (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				if err := requireLogin(d); err != nil {
					return err
				}
				data, err := readInput(cmd, args[0], maxTextBytes)
				if err != nil {
					return err
				}
				s, err := d.API.ProcessText(ctx, string(data))
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	pdf := &cobra.Command{
		Use:   "pdf FILE",
		Short: "Upload and summarize a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				if err := requireLogin(d); err != nil {
					return err
				}
				data, err := filex.ReadFileLimit(args[0], maxPDFBytes)
				if err != nil {
					return err
				}
				s, err := d.API.UploadPDF(ctx, filepath.Base(args[0]), bytes.NewReader(data))
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	youtube := &cobra.Command{
		Use:   "youtube URL",
		Short: "Summarize the transcript of a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, d *bootstrap.Deps) error {
				if err := requireLogin(d); err != nil {
					return err
				}
				s, err := d.API.ProcessYouTube(ctx, args[0])
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	cmd.AddCommand(text, pdf, youtube)
	return cmd
}

func readInput(cmd *cobra.Command, path string, limit int64) ([]byte, error) {
	if path != "-" {
		return filex.ReadFileLimit(path, limit)
	}

	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), limit+1))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("stdin: %w (limit %d bytes)", filex.ErrTooLarge, limit)
	}
	return data, nil
}

func printSummary(w io.Writer, s *client.Summary) {
	fmt.Fprintln(w, s.Summary)
	if len(s.KeyPoints) > 0 {
		fmt.Fprintln(w)
		for _, p := range s.KeyPoints {
			fmt.Fprintf(w, "- %s\n", p)
		}
	}
	if len(s.KeyConcepts) > 0 {
		fmt.Fprintf(w, "\nconcepts: %s\n", strings.Join(s.KeyConcepts, ", "))
	}
	fmt.Fprintf(w, "words: %d, sentences: %d\n", s.WordCount, s.SentenceCount)
}
