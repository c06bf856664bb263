package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/config"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/events"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/store"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/utils"
)

type Config struct {
	Currency        string
	Decimals        int32
	SplitEpsilon    int64 // minor units
	RemainderPolicy string
	GracePeriod     time.Duration
}

// NewConfig converts the user configuration into service settings.
func NewConfig(cfg *config.Config) (Config, error) {
	epsilon, err := utils.ToMinorUnits(cfg.Split.Epsilon, cfg.Defaults.Decimals)
	if err != nil {
		return Config{}, fmt.Errorf("invalid split.epsilon: %w", err)
	}

	switch cfg.Split.RemainderPolicy {
	case config.RemainderToCreator, config.RemainderToFirst:
	default:
		return Config{}, fmt.Errorf("invalid split.remainder_policy %q (must be %s or %s)",
			cfg.Split.RemainderPolicy, config.RemainderToCreator, config.RemainderToFirst)
	}

	if cfg.Emi.GracePeriod < 0 {
		return Config{}, fmt.Errorf("emi.grace_period must not be negative")
	}

	return Config{
		Currency:        cfg.Defaults.Currency,
		Decimals:        cfg.Defaults.Decimals,
		SplitEpsilon:    epsilon,
		RemainderPolicy: cfg.Split.RemainderPolicy,
		GracePeriod:     cfg.Emi.GracePeriod,
	}, nil
}

// Deps are the collaborators shared by every manager. Publisher defaults to
// Bus and Clock to time.Now.
type Deps struct {
	Repo      store.Repository
	Engine    *ledger.Engine
	Bus       *events.Bus
	Publisher events.Publisher
	Clock     func() time.Time
}

type Service struct {
	Account  *AccountService
	Request  *RequestService
	Split    *SplitService
	Emi      *EmiService
	Ledger   *ledger.Engine
	Settings Config
}

func NewService(deps Deps, cfg Config) *Service {
	if deps.Bus == nil {
		deps.Bus = events.NewBus()
	}
	if deps.Publisher == nil {
		deps.Publisher = deps.Bus
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	n := notifier{publisher: deps.Publisher, now: deps.Clock}
	requests := NewRequestService(deps.Repo, deps.Engine, n)
	splits := NewSplitService(deps.Repo, requests, n, cfg)
	emi := NewEmiService(deps.Repo, deps.Engine, n, cfg)

	deps.Bus.Subscribe(constants.EventTransferSettled, requests.onTransferSettled)
	deps.Bus.Subscribe(constants.EventTransferSettled, emi.onTransferSettled)
	deps.Bus.Subscribe(constants.EventRequestPaid, splits.onRequestPaid)

	return &Service{
		Account:  NewAccountService(deps.Engine, cfg),
		Request:  requests,
		Split:    splits,
		Emi:      emi,
		Ledger:   deps.Engine,
		Settings: cfg,
	}
}

type notifier struct {
	publisher events.Publisher
	now       func() time.Time
}

func (n notifier) emit(ctx context.Context, eventType, entityID string, payload any) {
	err := n.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: n.now().UTC(),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"event":  eventType,
			"entity": entityID,
			"error":  err.Error(),
		}).Error("Failed to publish event")
	}
}

// rejectEscrow refuses escrow addresses. Only the EMI manager moves escrow
// funds.
func rejectEscrow(addresses ...string) error {
	for _, address := range addresses {
		if model.IsEscrow(address) {
			return fmt.Errorf("%s is an escrow account: %w", address, model.ErrNotAuthorized)
		}
	}
	return nil
}
