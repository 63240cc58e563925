package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestSetDefaultsOrderSection(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults failed: %v", err)
	}
	if !cfg.Order.DiscountCodesEnabled {
		t.Fatalf("discount codes should be enabled by default")
	}
	if !cfg.Order.SettleOnDelivery {
		t.Fatalf("settle on delivery should be enabled by default")
	}
	if len(cfg.Order.SettleOnDeliveryMethods) != 1 || cfg.Order.SettleOnDeliveryMethods[0] != "cod" {
		t.Fatalf("unexpected settle methods: %v", cfg.Order.SettleOnDeliveryMethods)
	}
	if cfg.Order.NumberRetry != 3 {
		t.Fatalf("unexpected number retry: %d", cfg.Order.NumberRetry)
	}
	if cfg.Events.Driver != "asynq" {
		t.Fatalf("unexpected events driver: %s", cfg.Events.Driver)
	}
	if cfg.OTP.TTLSeconds != 600 || cfg.OTP.Length != 6 {
		t.Fatalf("unexpected otp defaults: %+v", cfg.OTP)
	}
}

func TestLogConfigToLoggerOptions(t *testing.T) {
	cfg := LogConfig{Dir: "/tmp/logs", Filename: "x.log", MaxSizeMB: 5, Compress: true}
	opts := cfg.ToLoggerOptions()
	if opts.Dir != "/tmp/logs" || opts.Filename != "x.log" || opts.MaxSizeMB != 5 || !opts.Compress {
		t.Fatalf("unexpected logger options: %+v", opts)
	}
}
