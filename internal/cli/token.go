package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/indcric-api/pkg/auth"
)

func newTokenCmd(load configLoader) *cobra.Command {
	var uid, email, role string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if uid == "" {
				return fmt.Errorf("--uid is required")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			jwtService, err := auth.NewJWTService(cfg.Auth.TokenSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
			if err != nil {
				return err
			}
			token, err := jwtService.GenerateToken(uid, email, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user id (sub claim)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&role, "role", "user", "role claim")
	return cmd
}
