package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/app"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

type infoRunner struct {
	app *app.App
}

func NewInfoCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database path, and system details.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				app: application,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	cfg := r.app.Config

	dbExists := false
	if _, err := os.Stat(r.app.DBPath); err == nil {
		dbExists = true
	}

	grace := "none"
	if cfg.Emi.GracePeriod > 0 {
		grace = cfg.Emi.GracePeriod.String()
	}

	items := views.SystemInfoItem{
		ConfigPath:      cfg.ConfigPath,
		DBDriver:        cfg.Database.Driver,
		DBPath:          r.app.DBPath,
		DBExists:        dbExists,
		DefaultCurrency: cfg.Defaults.Currency,
		Decimals:        cfg.Defaults.Decimals,
		RemainderPolicy: cfg.Split.RemainderPolicy,
		GracePeriod:     grace,
		KafkaBrokers:    cfg.Events.Kafka.Brokers,
		AppDataDir:      getAppDataDirOrUnknown(),
	}

	ui.PrintL1Title("aptex")
	return views.RenderSystemInfo(items)
}

func getAppDataDirOrUnknown() string {
	dir, err := app.GetAppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
