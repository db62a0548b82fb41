package config

import "time"

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "studybot.yml"

// Config is the root configuration for the bot process.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Content  ContentConfig  `yaml:"content"`
	Watch    WatchConfig    `yaml:"watch"`
}

// TelegramConfig holds transport credentials.
type TelegramConfig struct {
	Token string `yaml:"token"`
}

// ContentConfig locates the sandboxed document tree.
type ContentConfig struct {
	// Root is the directory all reads are confined to.
	Root string `yaml:"root"`
	// Extension is the recognized document extension, including the dot.
	Extension string `yaml:"extension"`
}

// WatchConfig tunes the change-detection loop.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns a config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Content: ContentConfig{
			Root:      "content",
			Extension: ".txt",
		},
		Watch: WatchConfig{
			Interval: 10 * time.Second,
			Debounce: 500 * time.Millisecond,
		},
	}
}
