package config

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/academykit/studybot/errors"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads and parses a configuration file, then applies environment
// overrides on top of it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	return LoadFromBytes(data)
}

// LoadDefault loads studybot.yml from the working directory if present, and
// falls back to defaults plus environment overrides otherwise. A .env file in
// the working directory is applied first, without overriding variables already
// set in the environment.
func LoadDefault() (*Config, error) {
	// Ignore a missing .env; the token may come from the real environment.
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	path := filepath.Join(cwd, DefaultFileName)
	if _, err := os.Stat(path); err != nil {
		cfg := Default()
		applyEnv(cfg)
		return cfg, nil
	}
	return Load(path)
}

// LoadFromBytes parses raw yaml on top of the defaults. ${VAR} occurrences are
// expanded from the environment before parsing.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config file")
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv layers environment variables over the loaded values. Token lookup
// accepts the same names the original deployment used.
func applyEnv(cfg *Config) {
	for _, name := range []string{"STUDYBOT_TOKEN", "TELEGRAM_BOT_TOKEN", "BOT_TOKEN"} {
		if v := os.Getenv(name); v != "" {
			cfg.Telegram.Token = v
			break
		}
	}
	if v := os.Getenv("STUDYBOT_CONTENT_ROOT"); v != "" {
		cfg.Content.Root = v
	}
}

func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}
