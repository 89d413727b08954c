package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mbolis/quick-brief/database"
	"github.com/mbolis/quick-brief/httpx"
	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/store"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user, or reset the password of an existing one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return errors.New("--email and --password are required")
		}

		hash, err := httpx.HashPassword(password)
		if err != nil {
			return err
		}

		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := store.New(db).SaveAdmin(cmd.Context(), email, hash)
		if err != nil {
			return err
		}
		log.Infof("admin %s saved with id %d", email, id)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().String("email", "", "admin login email")
	createAdminCmd.Flags().String("password", "", "admin password")
}
