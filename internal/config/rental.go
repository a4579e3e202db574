package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RentalConfig holds back-office defaults that operators tune without a
// redeploy: invoicing currency, invoice numbering and payment terms.
type RentalConfig struct {
	DefaultCurrency     string `mapstructure:"defaultCurrency"`
	InvoiceNumberPrefix string `mapstructure:"invoiceNumberPrefix"`
	PaymentDueDays      int    `mapstructure:"paymentDueDays"`
}

func DefaultRentalConfig() RentalConfig {
	return RentalConfig{
		DefaultCurrency:     "USD",
		InvoiceNumberPrefix: "INV",
		PaymentDueDays:      14,
	}
}

// RentalConfigHolder serves the current RentalConfig and follows edits to
// rental.yml at runtime.
type RentalConfigHolder struct {
	current atomic.Value // holds RentalConfig
}

func NewRentalConfigHolder() (*RentalConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("rental")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/rentdesk/config")
	v.AddConfigPath("/etc/rentdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RENTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		defaults := DefaultRentalConfig()
		v.SetDefault("rental.defaultCurrency", defaults.DefaultCurrency)
		v.SetDefault("rental.invoiceNumberPrefix", defaults.InvoiceNumberPrefix)
		v.SetDefault("rental.paymentDueDays", defaults.PaymentDueDays)
	}

	holder := &RentalConfigHolder{}
	if err := holder.load(v); err != nil {
		return nil, err
	}

	if v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			if err := holder.load(v); err != nil {
				log.Printf("rental config reload failed: %v", err)
			}
		})
		v.WatchConfig()
	}

	return holder, nil
}

func (h *RentalConfigHolder) load(v *viper.Viper) error {
	var cfg RentalConfig
	if err := v.UnmarshalKey("rental", &cfg); err != nil {
		return err
	}
	cfg = normalizeRentalConfig(cfg)
	h.current.Store(cfg)
	return nil
}

// Current returns the active rental defaults.
func (h *RentalConfigHolder) Current() RentalConfig {
	if value, ok := h.current.Load().(RentalConfig); ok {
		return value
	}
	return DefaultRentalConfig()
}

func normalizeRentalConfig(cfg RentalConfig) RentalConfig {
	defaults := DefaultRentalConfig()
	if strings.TrimSpace(cfg.DefaultCurrency) == "" {
		cfg.DefaultCurrency = defaults.DefaultCurrency
	}
	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	if strings.TrimSpace(cfg.InvoiceNumberPrefix) == "" {
		cfg.InvoiceNumberPrefix = defaults.InvoiceNumberPrefix
	}
	if cfg.PaymentDueDays <= 0 {
		cfg.PaymentDueDays = defaults.PaymentDueDays
	}
	return cfg
}
