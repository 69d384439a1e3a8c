package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanqian/docsum/internal/domain/documents"
	"github.com/yanqian/docsum/internal/infra/extract"
)

// Deps are the collaborators shared by the commands.
type Deps struct {
	Version   string
	Stdin     io.Reader
	Extractor documents.Extractor
	Logger    *slog.Logger
	Getenv    func(string) string
}

func (d *Deps) withDefaults() {
	if d.Version == "" {
		d.Version = "dev"
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Extractor == nil {
		d.Extractor = extract.NewDefaultRegistry(nil)
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
}

// NewRootCommand builds the docsum command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	deps.withDefaults()

	root := &cobra.Command{
		Use:   "docsum",
		Short: "Extractive document summarizer",
		Long: `docsum picks the most representative sentences of a document by
word frequency. Text, markdown, HTML, DOCX and PDF inputs are supported.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newSummarizeCommand(&deps),
		newExtractCommand(&deps),
		newTokenCommand(&deps),
		newVersionCommand(&deps),
	)
	return root
}
