package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/microlend_ledger/internal/middleware"
)

// newTokenCmd signs a bearer token with the configured secret, for local
// testing and service-to-service callers.
func newTokenCmd(rt *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				ttl = rt.cfg.JWTExpiryDuration
			}
			token, err := middleware.IssueToken(middleware.AuthConfig{Secret: rt.cfg.JWTSecret, Issuer: rt.cfg.JWTIssuer}, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "user ID recorded on ledger writes")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRY_DURATION)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
