package cli

import (
	"context"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/academykit/studybot/bot"
	"github.com/academykit/studybot/config"
	"github.com/academykit/studybot/content"
	"github.com/academykit/studybot/errors"
	"github.com/academykit/studybot/progress"
	"github.com/academykit/studybot/registry"
	"github.com/academykit/studybot/search"
	"github.com/academykit/studybot/watch"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the bot and the content watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := GetLogger(cmd)

			var cfg *config.Config
			var err error
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg, err = config.Load(path)
			} else {
				cfg, err = config.LoadDefault()
			}
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			tree, err := content.NewTree(cfg.Content.Root, cfg.Content.Extension)
			if err != nil {
				return err
			}

			api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeConfigInvalid, "token check failed")
			}
			log.WithField("username", api.Self.UserName).Info("authorized on Telegram")

			reg := registry.New()
			b := bot.New(api, tree, reg, progress.NewStore(), search.NewEngine(tree))
			watcher := watch.New(tree, reg, cfg.Watch.Interval, cfg.Watch.Debounce, b.NotifyNewDocument)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go watcher.Run(ctx)

			if err := b.Run(ctx, api); err != nil && err != context.Canceled {
				return err
			}
			log.Info("shutting down")
			return nil
		},
	}
}
