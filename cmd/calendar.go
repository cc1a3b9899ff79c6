package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/webdiner/internal/ordering"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show which days of a month are open, past or holidays",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		policy, err := ordering.LoadPolicy(cfg.Ordering.Timezone, cfg.Ordering.CutoffHour)
		if err != nil {
			return err
		}
		now := newClock(cfg.Debug).Now()
		if at, _ := cmd.Flags().GetString("at"); at != "" {
			if now, err = time.Parse(time.RFC3339, at); err != nil {
				return fmt.Errorf("--at must be an RFC 3339 timestamp: %w", err)
			}
		}
		month, err := monthFlag(cmd, cfg)
		if err != nil {
			return err
		}

		repos, closeRepos, err := openRepositories(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepos()

		days, err := repos.SpecialDays.GetRange(ctx, month.First(), month.Last())
		if err != nil {
			return err
		}
		cal := ordering.NewCalendar(days)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "DATE\tDAY\tSTATUS\tNOTE\n")
		for _, d := range month.Days() {
			note := ""
			if sd, ok := cal.Lookup(d); ok {
				note = sd.Description
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d, d.Weekday().String()[:3], policy.Status(d, now, cal), note)
		}
		fmt.Fprintf(w, "\nnow %s, earliest orderable %s\n", now.In(policy.Location()).Format(time.RFC3339), policy.MinOrderDate(now))
		return w.Flush()
	},
}

func init() {
	calendarCmd.Flags().String("month", "", "Month to show (YYYY-MM, default current)")
	calendarCmd.Flags().String("at", "", "Evaluate as of this RFC 3339 time instead of now")
	rootCmd.AddCommand(calendarCmd)
}

