package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanqian/docsum/internal/domain/summarizer"
)

type summarizeOptions struct {
	numSentences int
	stopWords    string
	language     string
	asJSON       bool
}

func newSummarizeCommand(deps *Deps) *cobra.Command {
	opts := summarizeOptions{}
	cmd := &cobra.Command{
		Use:   "summarize [file|-]",
		Short: "Summarize a document or stdin",
		Long: `Prints the highest scoring sentences of the input in their ranked order.
Without an argument, or with "-", plain text is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runSummarize(cmd, deps, opts, path)
		},
	}
	cmd.Flags().IntVarP(&opts.numSentences, "sentences", "n", summarizer.DefaultNumSentences, "number of sentences in the summary")
	cmd.Flags().StringVar(&opts.stopWords, "stop-words", "", "file with one stop word per line, replacing the built-in list")
	cmd.Flags().StringVar(&opts.language, "language", "", "language code recorded with the summary")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "output the full response as JSON")
	return cmd
}

func runSummarize(cmd *cobra.Command, deps *Deps, opts summarizeOptions, path string) error {
	if opts.numSentences < 0 {
		return fmt.Errorf("--sentences cannot be negative")
	}
	text, err := readText(cmd.Context(), deps, path)
	if err != nil {
		return err
	}

	cfg := summarizer.Config{DefaultSentences: summarizer.DefaultNumSentences, MaxKeywords: 5}
	if opts.stopWords != "" {
		f, err := os.Open(opts.stopWords)
		if err != nil {
			return fmt.Errorf("open stop words: %w", err)
		}
		defer f.Close()
		words, err := summarizer.LoadStopWords(f)
		if err != nil {
			return fmt.Errorf("load stop words: %w", err)
		}
		cfg.StopWords = words
	}

	n := opts.numSentences
	svc := summarizer.NewService(cfg, nil, deps.Logger)
	resp, err := svc.Summarize(cmd.Context(), summarizer.Request{Text: text, NumSentences: &n, Language: opts.language})
	if err != nil {
		return err
	}

	if opts.asJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Summary)
	return nil
}
