package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rl1809/cold-storage/internal/core/service"
)

var bootstrapInput service.BootstrapInput

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create an organization and its first manager",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		session, err := a.accounts.Bootstrap(cmd.Context(), bootstrapInput)
		if err != nil {
			return err
		}

		a.logger.Info("bootstrap complete",
			zap.String("org_id", session.Organization.ID),
			zap.String("manager_id", session.Profile.ID),
		)
		fmt.Fprintln(cmd.OutOrStdout(), session.Organization.ID)
		return nil
	},
}

func init() {
	f := bootstrapCmd.Flags()
	f.StringVar(&bootstrapInput.OrgName, "org", "", "organization name")
	f.StringVar(&bootstrapInput.Name, "name", "", "manager full name")
	f.StringVar(&bootstrapInput.Phone, "phone", "", "manager phone number")
	f.StringVar(&bootstrapInput.Username, "username", "", "manager user id")
	f.StringVar(&bootstrapInput.Password, "password", "", "manager password")
	bootstrapCmd.MarkFlagRequired("org")
	bootstrapCmd.MarkFlagRequired("username")
	bootstrapCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(bootstrapCmd)
}
