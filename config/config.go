// Package config loads calagent configuration from the environment, with an
// optional .env file exported into the process environment first. Presence of
// required values is the only validation performed; everything else is left to
// the components consuming the configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Config carries all environment-sourced settings for the assistant.
type Config struct {
	// Cal.com credentials and API selection.
	CalAPIKey     string `envconfig:"CAL_API_KEY" required:"true"`
	CalUserID     string `envconfig:"CAL_USER_ID"`
	CalAPIVersion string `envconfig:"CAL_API_VERSION" default:"v2"`
	CalBaseURL    string `envconfig:"CAL_BASE_URL"`

	// Session defaults, overridable per chat session.
	UserEmail            string `envconfig:"USER_EMAIL"`
	DefaultTimeZone      string `envconfig:"DEFAULT_TIME_ZONE" default:"America/New_York"`
	DefaultEventTypeSlug string `envconfig:"DEFAULT_EVENT_TYPE_SLUG" default:"30min"`

	// Remote call behavior.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// Model selection for the built-in chat agent.
	ModelProvider string `envconfig:"MODEL_PROVIDER" default:"openai"`
	ModelName     string `envconfig:"MODEL_NAME"`

	// Logging.
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// MustNew loads a T from the environment and panics on failure.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New loads a T from the environment. If envFile (or a ./.env default) exists
// its settings are exported into the environment before processing.
func New[T any](prefix string, envFile ...string) (*T, error) {
	if len(envFile) > 0 && envFile[0] != "" {
		if err := exportEnvironment(envFile[0]); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(".env"); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

func exportEnvironmentIfExists(filepath string) error {
	info, err := os.Stat(filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(filepath)
}

func exportEnvironment(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if os.Getenv(key) != "" {
			// Real environment wins over the .env file.
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}

	return nil
}
