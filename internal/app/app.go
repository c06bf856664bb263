package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/authority"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/config"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/events"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/logging"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/store"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type App struct {
	Service *service.Service
	Store   store.Repository
	Config  *config.Config
	DBPath  string
}

type Option func(*options)

type options struct {
	authority authority.Authority
}

// WithAuthority connects the ledger to a remote authority. Without it the
// local ledger confirms every transfer itself.
func WithAuthority(a authority.Authority) Option {
	return func(o *options) { o.authority = a }
}

// NewApp initialize config, logging, database and core logic, then return App entity
func NewApp(cfg *config.Config, migrationFS fs.FS, opts ...Option) (*App, func(), error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	appDir, err := GetAppDataDir()
	if err != nil {
		return nil, nil, err
	}

	closeLog, err := logging.Setup(cfg.Logging, filepath.Join(appDir, "aptex.log"))
	if err != nil {
		return nil, nil, err
	}

	settings, err := service.NewConfig(cfg)
	if err != nil {
		closeLog()
		return nil, nil, err
	}

	dbPath := DBPath(cfg, appDir)
	repo, err := openStore(cfg.Database.Driver, dbPath, migrationFS)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewBus()
	var publisher events.Publisher = bus
	var kafka *events.KafkaPublisher
	if brokers := cfg.Events.Kafka.Brokers; len(brokers) > 0 {
		kafka = events.NewKafkaPublisher(brokers, cfg.Events.Kafka.Topic)
		publisher = events.Fanout{bus, kafka}
	}

	engineOpts := []ledger.Option{ledger.WithPublisher(publisher)}
	if o.authority != nil {
		engineOpts = append(engineOpts, ledger.WithAuthority(o.authority))
	}
	engine := ledger.NewEngine(repo, engineOpts...)

	svc := service.NewService(service.Deps{
		Repo:      repo,
		Engine:    engine,
		Bus:       bus,
		Publisher: publisher,
	}, settings)

	logrus.WithFields(logrus.Fields{
		"driver": cfg.Database.Driver,
		"path":   dbPath,
		"kafka":  kafka != nil,
	}).Debug("Application initialized")

	cleanup := func() {
		if kafka != nil {
			if err := kafka.Close(); err != nil {
				logrus.WithError(err).Warn("Failed to close Kafka writer")
			}
		}
		if err := repo.Close(); err != nil {
			fmt.Printf("Error closing DB: %v\n", err)
		}
		closeLog()
	}

	return &App{
		Service: svc,
		Store:   repo,
		Config:  cfg,
		DBPath:  dbPath,
	}, cleanup, nil
}

func openStore(driver, dbPath string, migrationFS fs.FS) (store.Repository, error) {
	switch driver {
	case "", DriverSQLite:
		return store.NewStore(dbPath, migrationFS)
	case DriverMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database.driver %q (must be %s or %s)", driver, DriverSQLite, DriverMemory)
	}
}

// DBPath returns the configured database path, or the default one inside
// the app data directory.
func DBPath(cfg *config.Config, appDir string) string {
	if cfg.Database.Path != "" {
		return cfg.Database.Path
	}
	return filepath.Join(appDir, "aptex.db")
}

func GetAppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".aptex"), nil
	}

	return filepath.Join(configDir, "aptex"), nil
}
