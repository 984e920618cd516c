package ops

import (
	"encoding/json"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/sizing"
	"main/pkg/conn"
	"main/pkg/ratelimit"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Sizing    SizingConfig    `json:"sizing"`
	RateLimit RateLimitConfig `json:"rateLimit"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Journal   JournalConfig   `json:"journal"`

	// FutureOptionTickers overrides or extends the built-in futures ->
	// future-options ticker table.
	FutureOptionTickers map[string]string `json:"futureOptionTickers"`
}

// SizingConfig holds decimal fields as strings so precision survives JSON.
type SizingConfig struct {
	MinTargetPercent      string `json:"minTargetPercent"`
	MaxTargetPercent      string `json:"maxTargetPercent"`
	FreeReserve           string `json:"freeReserve"`
	MinOrderMarginPercent string `json:"minOrderMarginPercent"`
}

// RateLimitConfig describes the market-data token bucket. A zero capacity
// disables throttling entirely.
type RateLimitConfig struct {
	Capacity       int64         `json:"capacity"`
	RefillAmount   int64         `json:"refillAmount"`
	RefillInterval time.Duration `json:"refillInterval"`
}

// SchedulerConfig sizes the background load worker pool.
type SchedulerConfig struct {
	Workers    int `json:"workers"`
	StepBudget int `json:"stepBudget"`
}

// JournalConfig points at the order-event journal database. An empty host
// disables journaling.
type JournalConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Sizing              sizing.Settings
	Bucket              ratelimit.Bucket
	Workers             int
	Budget              int
	Journal             *conn.Option
	FutureOptionTickers *FutureOptionTickers
}

// Load reads a JSON config file and resolves every section. An empty path
// yields the defaults.
func Load(path string) (Loaded, error) {
	var cfg FileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, errors.Wrap(err, "read config")
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, errors.Wrap(err, "parse config")
		}
	}

	settings, err := resolveSizing(cfg.Sizing)
	if err != nil {
		return Loaded{}, err
	}
	bucket, err := resolveBucket(cfg.RateLimit)
	if err != nil {
		return Loaded{}, err
	}
	tickers := NewFutureOptionTickers(cfg.FutureOptionTickers)

	loaded := Loaded{
		Sizing:              settings,
		Bucket:              bucket,
		Workers:             cfg.Scheduler.Workers,
		Budget:              cfg.Scheduler.StepBudget,
		FutureOptionTickers: tickers,
	}
	if cfg.Journal.Host != "" {
		loaded.Journal = &conn.Option{
			Host:     cfg.Journal.Host,
			Port:     cfg.Journal.Port,
			User:     cfg.Journal.User,
			Password: cfg.Journal.Password,
			Database: cfg.Journal.Database,
		}
	}
	return loaded, nil
}

func resolveSizing(cfg SizingConfig) (sizing.Settings, error) {
	settings := sizing.DefaultSettings()
	fields := []struct {
		raw  string
		dst  *decimal.Decimal
		name string
	}{
		{cfg.MinTargetPercent, &settings.MinAbsoluteTargetPercent, "minTargetPercent"},
		{cfg.MaxTargetPercent, &settings.MaxAbsoluteTargetPercent, "maxTargetPercent"},
		{cfg.FreeReserve, &settings.FreeReserve, "freeReserve"},
		{cfg.MinOrderMarginPercent, &settings.MinimumOrderMarginPercent, "minOrderMarginPercent"},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return sizing.Settings{}, errors.Wrap(err, "parse sizing field").With("field", f.name)
		}
		if d.Sign() < 0 {
			return sizing.Settings{}, errors.New("sizing field must be >= 0").With("field", f.name)
		}
		*f.dst = d
	}
	if settings.MaxAbsoluteTargetPercent.LessThan(settings.MinAbsoluteTargetPercent) {
		return sizing.Settings{}, errors.New("maxTargetPercent below minTargetPercent")
	}
	return settings, nil
}

func resolveBucket(cfg RateLimitConfig) (ratelimit.Bucket, error) {
	if cfg.Capacity == 0 {
		return ratelimit.NullBucket{}, nil
	}
	if cfg.Capacity < 0 || cfg.RefillAmount <= 0 || cfg.RefillInterval <= 0 {
		return nil, errors.New("rateLimit requires positive capacity, refillAmount and refillInterval")
	}
	return ratelimit.NewLeakyBucket(cfg.Capacity, cfg.RefillAmount, cfg.RefillInterval), nil
}
