package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/account"
	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/emi"
	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/request"
	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/split"
	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/transaction"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/app"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/config"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/errhandler"
)

var (
	cfgFile string
	cfg     *config.Config
)

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	scanConfigFlag(os.Args[1:])

	if err := initConfig(); err != nil {
		pterm.Error.Println(capitalize(err.Error()))
		os.Exit(1)
	}

	application, cleanup, err := app.NewApp(cfg, migrations)
	if err != nil {
		pterm.Error.Println(capitalize(err.Error()))
		os.Exit(1)
	}

	rootCmd := NewRootCmd(application)
	err = rootCmd.Execute()
	cleanup()

	if err != nil {
		os.Exit(errhandler.HandleError(err))
	}
}

// NewRootCmd builds the full command tree on top of an initialized App.
func NewRootCmd(application *app.App) *cobra.Command {
	svc := application.Service

	rootCmd := &cobra.Command{
		Use:   "aptex",
		Short: "aptex is a local wallet ledger with payment requests, bill splits and EMI plans",
		Long: `aptex keeps wallet balances in a local ledger and drives payment requests,
bill splits and EMI installment agreements on top of it.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")
	rootCmd.PersistentFlags().String(cmdutil.FlagAs, "", "address to act as")

	rootCmd.AddCommand(account.NewAccountCmd(svc))
	rootCmd.AddCommand(transaction.NewTransactionCmd(svc))
	rootCmd.AddCommand(request.NewRequestCmd(svc))
	rootCmd.AddCommand(split.NewSplitCmd(svc))
	rootCmd.AddCommand(emi.NewEmiCmd(svc))

	rootCmd.AddCommand(NewSendCmd(svc))
	rootCmd.AddCommand(NewInfoCmd(application))

	return rootCmd
}

// scanConfigFlag picks --config out of the arguments before cobra parses
// them, since the config decides how the App is built.
func scanConfigFlag(args []string) {
	flags := pflag.NewFlagSet("aptex", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Usage = func() {}
	flags.SetOutput(io.Discard)
	flags.StringVarP(&cfgFile, "config", "c", "", "")
	_ = flags.Parse(args)
}

func setDefaults(v *viper.Viper) {
	d := config.NewDefault()
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("defaults.currency", d.Defaults.Currency)
	v.SetDefault("defaults.decimals", d.Defaults.Decimals)
	v.SetDefault("split.epsilon", d.Split.Epsilon)
	v.SetDefault("split.remainder_policy", d.Split.RemainderPolicy)
	v.SetDefault("emi.grace_period", d.Emi.GracePeriod)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("events.kafka.brokers", d.Events.Kafka.Brokers)
	v.SetDefault("events.kafka.topic", d.Events.Kafka.Topic)
}

func initConfig() error {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		path, err := expandPath(cfgFile)
		if err != nil {
			return err
		}
		viper.SetConfigFile(path)
	} else {
		appDir, err := app.GetAppDataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if err := createDefaultConfig(appDir); err != nil {
			return fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix("APTEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {

		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	if cfg.Database.Path != "" {
		path, err := expandPath(cfg.Database.Path)
		if err != nil {
			return err
		}
		cfg.Database.Path = path
	}

	cfg.ConfigPath = viper.ConfigFileUsed()

	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}

func createDefaultConfig(appDir string) error {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
