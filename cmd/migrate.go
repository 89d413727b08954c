package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mbolis/quick-brief/database"
	"github.com/mbolis/quick-brief/log"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := database.Migrate(db)
		if err != nil {
			return err
		}
		log.Infof("%s at schema version %d", cfg.DBUrl, version)
		return nil
	},
}
