package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "APT", cfg.Defaults.Currency)
	assert.EqualValues(t, 8, cfg.Defaults.Decimals)
	assert.Equal(t, RemainderToCreator, cfg.Split.RemainderPolicy)
	assert.Equal(t, "0.000001", cfg.Split.Epsilon)
	assert.Zero(t, cfg.Emi.GracePeriod)
	assert.Empty(t, cfg.Events.Kafka.Brokers)
}
