package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_PricingTierMissingPrefix(t *testing.T) {
	cfg := validConfig()
	cfg.Pricing.Tiers = []TierConfig{{Prefix: "", Input: 1, Output: 2}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for tier without prefix")
	}
}

func TestValidate_PricingTierNegativePrice(t *testing.T) {
	cfg := validConfig()
	cfg.Pricing.Tiers = []TierConfig{{Prefix: "gpt-4", Input: -1, Output: 2}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestValidate_DefaultPageSizeAboveMax(t *testing.T) {
	cfg := validConfig()
	cfg.Listing = ListingConfig{DefaultPageSize: 500, MaxPageSize: 100}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when default page size exceeds max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected driver=valkey, got %s", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Listing.DefaultPageSize != 100 {
		t.Errorf("expected DefaultPageSize=100, got %d", cfg.Listing.DefaultPageSize)
	}
	if cfg.Listing.MaxPageSize != 1000 {
		t.Errorf("expected MaxPageSize=1000, got %d", cfg.Listing.MaxPageSize)
	}
	if cfg.Storage.KeyPrefix != "llmpulse:" {
		t.Errorf("expected KeyPrefix=llmpulse:, got %s", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LLMPULSE_TEST_PASSWORD", "s3cret")

	in := []byte("password: ${LLMPULSE_TEST_PASSWORD}\nport: ${LLMPULSE_TEST_PORT:-8080}\n")
	out := string(expandEnvVars(in))

	want := "password: s3cret\nport: 8080\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
