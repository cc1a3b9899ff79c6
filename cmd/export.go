package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/webdiner/internal/cloudwriter"
	"github.com/chrisdamba/webdiner/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a month of orders to a parquet file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		month, err := monthFlag(cmd, cfg)
		if err != nil {
			return err
		}

		repos, closeRepos, err := openRepositories(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepos()

		var factory cloudwriter.CloudWriterFactory
		if cfg.Export.Destination == "s3" {
			f, err := cloudwriter.NewS3WriterFactory(ctx, cfg.Export.Region)
			if err != nil {
				return err
			}
			factory = f
		}

		res, err := export.NewExporter(repos.Orders, cfg.Export, factory, os.Stderr, logger).ExportMonth(ctx, month)
		if err != nil {
			return err
		}
		cmd.Printf("%d orders written to %s\n", res.Rows, res.Path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("month", "", "Month to export (YYYY-MM, default current)")
	exportCmd.Flags().String("destination", "local", "Export destination: local or s3")
	exportCmd.Flags().String("folder", "exports", "Output folder or object prefix")
	exportCmd.Flags().String("bucket", "", "S3 bucket for s3 exports")

	viper.BindPFlag("export.destination", exportCmd.Flags().Lookup("destination"))
	viper.BindPFlag("export.folder", exportCmd.Flags().Lookup("folder"))
	viper.BindPFlag("export.bucket", exportCmd.Flags().Lookup("bucket"))

	rootCmd.AddCommand(exportCmd)
}
