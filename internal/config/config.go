package config

import (
	"fmt"

	"github.com/Netflix/go-env"
	"github.com/robfig/cron/v3"
)

// Page limit bounds keep a single run's delivery volume small enough for the
// messaging channel's rate budget.
const (
	minPageLimit = 3
	maxPageLimit = 25
)

// Inbound delivery modes for keyword-triggered runs.
const (
	InboundModeReply   = "reply"
	InboundModePushAll = "push_all"
)

type Config struct {
	DatabaseDSN       string `env:"DATABASE_DSN,required=true"`
	RedisURL          string `env:"REDIS_URL,required=true"`
	LineChannelToken  string `env:"LINE_CHANNEL_TOKEN,required=true"`
	LineChannelSecret string `env:"LINE_CHANNEL_SECRET,required=true"`
	LineAPIBase       string `env:"LINE_API_BASE,default=https://api.line.me"`
	APIPort           int    `env:"API_PORT,default=8080"`
	LogLevel          string `env:"LOG_LEVEL,default=info"`
	HorizonDays       int    `env:"HORIZON_DAYS,default=45"`
	MilestoneDays     int    `env:"MILESTONE_DAYS,default=30"`
	PageLimit         int    `env:"PAGE_LIMIT,default=20"`
	TriggerKeyword    string `env:"TRIGGER_KEYWORD,default=สู้ต่อไป"`
	ReminderCron      string `env:"REMINDER_CRON,default=0 15 * * *"`
	InboundMode       string `env:"INBOUND_DELIVERY_MODE,default=reply"`
	SendRatePerSec    int    `env:"SEND_RATE_PER_SEC,default=10"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HorizonDays <= 0 {
		return fmt.Errorf("HORIZON_DAYS must be positive, got %d", c.HorizonDays)
	}
	if c.MilestoneDays <= 0 {
		return fmt.Errorf("MILESTONE_DAYS must be positive, got %d", c.MilestoneDays)
	}
	if c.PageLimit < minPageLimit || c.PageLimit > maxPageLimit {
		return fmt.Errorf("PAGE_LIMIT must be between %d and %d, got %d", minPageLimit, maxPageLimit, c.PageLimit)
	}
	if c.InboundMode != InboundModeReply && c.InboundMode != InboundModePushAll {
		return fmt.Errorf("INBOUND_DELIVERY_MODE must be %q or %q, got %q", InboundModeReply, InboundModePushAll, c.InboundMode)
	}
	if c.TriggerKeyword == "" {
		return fmt.Errorf("TRIGGER_KEYWORD must not be empty")
	}
	if _, err := cron.ParseStandard(c.ReminderCron); err != nil {
		return fmt.Errorf("invalid REMINDER_CRON %q: %w", c.ReminderCron, err)
	}
	return nil
}
