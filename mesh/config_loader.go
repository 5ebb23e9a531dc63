package mesh

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MQTTConfig holds MQTT connection settings
type MQTTConfig struct {
	Broker        string `yaml:"broker" json:"broker"`
	RequestTopic  string `yaml:"requestTopic" json:"requestTopic"`
	PublishPrefix string `yaml:"publishPrefix" json:"publishPrefix"`
	ClientID      string `yaml:"clientId" json:"clientId"`
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`
}

// Config represents the full configuration file
type Config struct {
	MQTT               MQTTConfig       `yaml:"mqtt" json:"mqtt"`
	Processing         ProcessingConfig `yaml:"processing" json:"processing"`
	Locator            LocatorConfig    `yaml:"locator" json:"locator"`
	AgreementTolerance float64          `yaml:"agreementTolerance" json:"agreementTolerance"` // metres
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			RequestTopic:  "headreg/requests",
			PublishPrefix: "headreg",
			ClientID:      "headreg",
		},
		Processing:         DefaultProcessingConfig(),
		Locator:            DefaultLocatorConfig(),
		AgreementTolerance: 0.015,
	}
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	if err := c.Processing.Validate(); err != nil {
		return err
	}
	if err := c.Locator.Validate(); err != nil {
		return err
	}
	if c.AgreementTolerance < 0 {
		return fmt.Errorf("agreementTolerance must not be negative")
	}
	return nil
}

// LoadConfig loads the configuration from a YAML file. Keys absent from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
