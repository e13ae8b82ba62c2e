package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePackage(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateWorkshop(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePackage() error {
	if c.Package.NamePrefix == "" {
		return errors.New("package.name_prefix must be set")
	}
	if strings.ContainsAny(c.Package.NamePrefix, "_ /\\") {
		return fmt.Errorf("package.name_prefix %q must not contain underscores, spaces, or path separators", c.Package.NamePrefix)
	}
	if c.Package.Extension == "" {
		return errors.New("package.extension must be set")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if len(c.Resolver.PrefixPriority) == 0 {
		return errors.New("resolver.prefix_priority must list at least one prefix")
	}
	for _, prefix := range c.Resolver.PrefixPriority {
		if strings.TrimSpace(prefix) == "" {
			return errors.New("resolver.prefix_priority entries must not be blank")
		}
	}
	return nil
}

func (c *Config) validateWorkshop() error {
	if c.Workshop.APIBaseURL == "" {
		return errors.New("workshop.api_base_url must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
