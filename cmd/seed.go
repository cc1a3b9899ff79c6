package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/webdiner/internal/factories"
	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/ordering"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with generated departments, vendors, menus and users",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		opts := factories.DatasetOptions{}
		opts.Departments, _ = cmd.Flags().GetInt("departments")
		opts.Vendors, _ = cmd.Flags().GetInt("vendors")
		opts.ItemsPerVendor, _ = cmd.Flags().GetInt("items")
		opts.Users, _ = cmd.Flags().GetInt("users")
		opts.HolidaysInMonth, _ = cmd.Flags().GetInt("holidays")
		if opts.Month, err = monthFlag(cmd, cfg); err != nil {
			return err
		}

		pool, err := openPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		repos := postgresRepositories(pool)

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			logger.Warn().Msg("removing existing data")
			for _, deleteAll := range []func() error{
				func() error { return repos.Orders.DeleteAll(ctx) },
				func() error { return repos.SpecialDays.DeleteAll(ctx) },
				func() error { return repos.Users.DeleteAll(ctx) },
				func() error { return repos.MenuItems.DeleteAll(ctx) },
				func() error { return repos.Vendors.DeleteAll(ctx) },
				func() error { return repos.Departments.DeleteAll(ctx) },
			} {
				if err := deleteAll(); err != nil {
					return err
				}
			}
		}

		ds := factories.GenerateDataset(opts)
		if err := ds.Load(ctx, seedTargets(repos), os.Stderr); err != nil {
			return err
		}
		event := logger.Info()
		if len(ds.Users) > 0 {
			event = event.Str("sysadmin", ds.Users[0].EmployeeID)
		}
		event.
			Int("departments", len(ds.Departments)).
			Int("vendors", len(ds.Vendors)).
			Int("menu_items", len(ds.MenuItems)).
			Int("users", len(ds.Users)).
			Int("special_days", len(ds.SpecialDays)).
			Msg("seed complete")
		return nil
	},
}

// monthFlag reads --month, defaulting to the current month in the ordering
// timezone.
func monthFlag(cmd *cobra.Command, cfg *models.Config) (models.Month, error) {
	raw, _ := cmd.Flags().GetString("month")
	if raw != "" {
		return models.ParseMonth(raw)
	}
	policy, err := ordering.LoadPolicy(cfg.Ordering.Timezone, cfg.Ordering.CutoffHour)
	if err != nil {
		return models.Month{}, err
	}
	return policy.Today(newClock(cfg.Debug).Now()).YearMonth(), nil
}

func init() {
	seedCmd.Flags().Int("departments", 5, "Number of departments")
	seedCmd.Flags().Int("vendors", 4, "Number of vendors")
	seedCmd.Flags().Int("items", 6, "Menu items per vendor")
	seedCmd.Flags().Int("users", 50, "Number of employees, the first is a sysadmin")
	seedCmd.Flags().Int("holidays", 1, "Extra holidays to declare in --month")
	seedCmd.Flags().String("month", "", "Month for generated holidays (YYYY-MM, default current)")
	seedCmd.Flags().Bool("reset", false, "Delete existing data first")
	rootCmd.AddCommand(seedCmd)
}
