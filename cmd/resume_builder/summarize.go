package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize text with the configured provider",
	Long:  "Sends text to the configured summarization provider (huggingface or gemini) and prints the summary. HTML input is reduced to plain text first.",
	RunE:  runSummarize,
}

var (
	summarizeText  string
	summarizeInput string
)

func init() {
	summarizeCmd.Flags().StringVar(&summarizeText, "text", "", "Text to summarize")
	summarizeCmd.Flags().StringVarP(&summarizeInput, "in", "i", "", "File to summarize, or - for stdin")
	summarizeCmd.MarkFlagsMutuallyExclusive("text", "in")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	text, err := summarizeSource(cmd.InOrStdin())
	if err != nil {
		return err
	}

	summarizer, err := summarize.New(cmd.Context(), a.cfg.Summarize)
	if err != nil {
		return err
	}
	if c, ok := summarizer.(io.Closer); ok {
		defer c.Close()
	}

	summary, err := summarizeWith(cmd.Context(), summarizer, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}

func summarizeSource(stdin io.Reader) (string, error) {
	switch {
	case summarizeText != "":
		return summarizeText, nil
	case summarizeInput == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	case summarizeInput != "":
		b, err := os.ReadFile(summarizeInput)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", summarizeInput, err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("one of --text or --in is required")
	}
}

// summarizeWith reduces HTML to plain text before calling the provider
func summarizeWith(ctx context.Context, s summarize.Summarizer, text string) (string, error) {
	plain, err := summarize.PlainText(text)
	if err != nil {
		return "", err
	}
	summary, err := s.Summarize(ctx, plain)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}
