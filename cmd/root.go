package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mbolis/quick-brief/config"
	"github.com/mbolis/quick-brief/log"
)

// cfg is filled in before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "quick-brief",
	Short: "Form briefs: public drafts and submissions, admin review",
	Long: `quick-brief serves form definitions, collects draft answers until a
submission is finalized, and lets admins list and review what came in.

Settings come from .env, then QB_* environment variables, then flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.Debug {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createAdminCmd)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal("main:", err)
	}
}
