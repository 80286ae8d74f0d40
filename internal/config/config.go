// Package config loads the optional passpick configuration file. Absence
// of the file is not an error; every setting has a working default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	perrors "github.com/passpick/passpick/internal/errors"
	"github.com/passpick/passpick/internal/logging"
	pkgexec "github.com/passpick/passpick/pkg/exec"
)

// Config holds the runtime configuration.
type Config struct {
	Path         string
	Logger       *logging.Logger
	ExplicitPath bool // set when --config was given; missing file is then an error
	Settings     Settings

	// Executor runs the external programs. Tests inject a mock here;
	// nil means the real one.
	Executor pkgexec.CommandExecutor
}

// CommandExecutor returns the configured executor or the real one.
func (c *Config) CommandExecutor() pkgexec.CommandExecutor {
	if c.Executor != nil {
		return c.Executor
	}
	return pkgexec.DefaultExecutor()
}

// Settings is the config.yaml structure.
type Settings struct {
	PassBin     string   `yaml:"pass_bin,omitempty" json:"pass_bin,omitempty"`
	StoreDir    string   `yaml:"store_dir,omitempty" json:"store_dir,omitempty"`
	Selector    []string `yaml:"selector,omitempty" json:"selector,omitempty"`
	TypeTool    []string `yaml:"type_tool,omitempty" json:"type_tool,omitempty"`
	OTPFallback bool     `yaml:"otp_fallback,omitempty" json:"otp_fallback,omitempty"`
}

// settingsSchema validates the parsed file before use so a typoed key or a
// wrong type fails with a pointed message instead of a silent default.
const settingsSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"pass_bin":     {"type": "string", "minLength": 1},
		"store_dir":    {"type": "string", "minLength": 1},
		"selector":     {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"type_tool":    {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"otp_fallback": {"type": "boolean"}
	}
}`

// DefaultPath returns $XDG_CONFIG_HOME/passpick/config.yaml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "passpick", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "passpick", "config.yaml")
}

// Load reads and validates the config file. A missing file only errors
// when the path was given explicitly.
func (c *Config) Load() error {
	path := c.Path
	if path == "" {
		path = DefaultPath()
	}
	c.applyDefaults()

	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if c.ExplicitPath {
				return perrors.ConfigError{
					Field:      "config",
					Value:      path,
					Message:    "configuration file not found",
					Suggestion: "Create the file or drop --config to use defaults",
				}
			}
			return nil
		}
		return perrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return perrors.ConfigError{
			Field:      "config",
			Value:      path,
			Message:    "invalid YAML: " + err.Error(),
			Suggestion: "Check the file for syntax errors",
		}
	}

	if raw == nil {
		// Empty file: keep defaults.
		return nil
	}

	if err := validateSettings(raw); err != nil {
		return perrors.ConfigError{
			Field:      "config",
			Value:      path,
			Message:    err.Error(),
			Suggestion: "Valid keys: pass_bin, store_dir, selector, type_tool, otp_fallback",
		}
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return perrors.ConfigError{
			Field:   "config",
			Value:   path,
			Message: "cannot decode settings: " + err.Error(),
		}
	}

	c.merge(settings)
	return nil
}

// validateSettings checks the decoded YAML document against the embedded
// JSON schema.
func validateSettings(raw map[string]interface{}) error {
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal settings for validation: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(settingsSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("schema validation failed:\n  - %s", strings.Join(errorMessages, "\n  - "))
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Settings.PassBin == "" {
		c.Settings.PassBin = "pass"
	}
}

func (c *Config) merge(s Settings) {
	if s.PassBin != "" {
		c.Settings.PassBin = s.PassBin
	}
	if s.StoreDir != "" {
		c.Settings.StoreDir = s.StoreDir
	}
	if len(s.Selector) > 0 {
		c.Settings.Selector = s.Selector
	}
	if len(s.TypeTool) > 0 {
		c.Settings.TypeTool = s.TypeTool
	}
	if s.OTPFallback {
		c.Settings.OTPFallback = true
	}
}
