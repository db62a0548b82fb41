package config

import (
	"os"
	"strings"

	"github.com/academykit/studybot/errors"
)

// Validate checks that the configuration is usable for startup. The content
// root must already exist; the watcher assumes it is never created later.
func (c *Config) Validate() error {
	token := strings.TrimSpace(c.Telegram.Token)
	if token == "" {
		return errors.ConfigInvalid("bot token is not set; provide STUDYBOT_TOKEN, TELEGRAM_BOT_TOKEN or BOT_TOKEN")
	}
	if strings.Contains(token, "PASTE_YOUR_TOKEN_HERE") {
		return errors.ConfigInvalid("bot token is still the placeholder; paste the real token from @BotFather")
	}

	if c.Content.Root == "" {
		return errors.ConfigInvalid("content root is not set")
	}
	info, err := os.Stat(c.Content.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.ConfigInvalid("content root '" + c.Content.Root + "' does not exist")
		}
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "cannot access content root")
	}
	if !info.IsDir() {
		return errors.ConfigInvalid("content root '" + c.Content.Root + "' is not a directory")
	}

	if !strings.HasPrefix(c.Content.Extension, ".") {
		return errors.ConfigInvalid("content extension must start with a dot")
	}
	if c.Watch.Interval <= 0 {
		return errors.ConfigInvalid("watch interval must be positive")
	}

	return nil
}
