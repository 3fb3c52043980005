package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridwatch/backend/pkg/phemex"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the API key pair is accepted by Phemex",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := requireCredentials()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := newExchange().ValidateCredentials(ctx, creds); err != nil {
			if phemex.IsAuthError(err) {
				return fmt.Errorf("credentials rejected by Phemex: %w", err)
			}
			return fmt.Errorf("could not validate credentials: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "credentials OK")
		return nil
	},
}
