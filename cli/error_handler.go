package cli

import (
	"fmt"
	"os"

	"github.com/academykit/studybot/errors"
)

// HandleError prints a user-friendly message for known error codes.
func HandleError(err error) {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Create studybot.yml or set STUDYBOT_TOKEN and STUDYBOT_CONTENT_ROOT.\n")

	case errors.ErrCodeConfigInvalid:
		if botErr, ok := err.(*errors.BotError); ok {
			fmt.Fprintf(os.Stderr, "❌ %s\n", botErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		}

	case errors.ErrCodeNotFound:
		if botErr, ok := err.(*errors.BotError); ok {
			fmt.Fprintf(os.Stderr, "❌ Content root '%v' does not exist. Create it before starting the bot.\n", botErr.Details["path"])
		}

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
	}
}
