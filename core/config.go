package core

import (
	"fmt"
	"strings"
)

type ProvisioningConfig struct {
	// DefaultVendorLimit applies when no plan limiter is wired. Zero means
	// unbounded.
	DefaultVendorLimit int `koanf:"default_vendor_limit" mapstructure:"default_vendor_limit"`
}

type Config struct {
	ServiceName  string             `koanf:"service_name" mapstructure:"service_name"`
	Provisioning ProvisioningConfig `koanf:"provisioning" mapstructure:"provisioning"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:  "vendors",
		Provisioning: ProvisioningConfig{},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Provisioning.DefaultVendorLimit < 0 {
		return fmt.Errorf("core: provisioning.default_vendor_limit cannot be negative")
	}
	return nil
}
