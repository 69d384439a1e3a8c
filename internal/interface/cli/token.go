package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/docsum/internal/domain/auth"
)

func newTokenCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}

	var (
		subject string
		ttl     time.Duration
		secret  string
		issuer  string
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed token for the document API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = deps.Getenv("SECRET_KEY")
			}
			if secret == "" {
				return errors.New("a secret is required: pass --secret or set SECRET_KEY")
			}
			svc, err := auth.NewService(auth.Config{Secret: secret, Issuer: issuer, TokenTTL: ttl}, deps.Logger)
			if err != nil {
				return err
			}
			token, err := svc.IssueToken(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "token subject (required)")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	issue.Flags().StringVar(&secret, "secret", "", "signing secret, defaults to $SECRET_KEY")
	issue.Flags().StringVar(&issuer, "issuer", "docsum", "token issuer")
	_ = issue.MarkFlagRequired("subject")

	cmd.AddCommand(issue)
	return cmd
}
