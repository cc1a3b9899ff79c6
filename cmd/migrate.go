package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/webdiner/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			names, err := migrations.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		pool, err := openPool(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := migrations.Apply(cmd.Context(), pool)
		if err != nil {
			return err
		}
		logger.Info().Int("applied", applied).Msg("database is up to date")
		return nil
	},
}

func init() {
	migrateCmd.Flags().Bool("list", false, "List embedded migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}
