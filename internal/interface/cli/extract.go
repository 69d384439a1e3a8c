package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yanqian/docsum/internal/domain/documents"
)

func newExtractCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the plain text extracted from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.Context(), deps, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

// readText returns the text of path. "-" reads plain text from stdin; other
// paths go through the extractor unless they are plain text.
func readText(ctx context.Context, deps *Deps, path string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if path == "-" {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	if !deps.Extractor.Supports(name, "") {
		return "", fmt.Errorf("unsupported file type: %s", name)
	}
	extraction, err := deps.Extractor.Extract(ctx, documents.ExtractInput{Filename: name, Content: data})
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", name, err)
	}
	return extraction.Text, nil
}
