package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// TextFormatter is a custom logrus formatter.
type TextFormatter struct {
	colored bool
}

// NewTextFormatter returns a formatter that colors output when stderr is a terminal.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{colored: isatty.IsTerminal(os.Stderr.Fd())}
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	b.WriteString(" ")

	// Map logrus level strings to shorter versions for consistency
	levelStr := entry.Level.String()
	if levelStr == "warning" {
		levelStr = "warn"
	}
	level := strings.ToUpper(levelStr)
	b.WriteString(f.paint(levelColor(entry.Level), fmt.Sprintf("[%s]", level)))

	if component, ok := entry.Data["component"]; ok {
		b.WriteString(f.paint(ansiCyan, fmt.Sprintf(" [%v]", component)))
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	// Append remaining fields in a stable order
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(f.paint(ansiGray, fmt.Sprintf(" %s=%v", key, entry.Data[key])))
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

func (f *TextFormatter) paint(color, s string) string {
	if !f.colored {
		return s
	}
	return color + s + ansiReset
}

func levelColor(level logrus.Level) string {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return ansiRed
	case logrus.WarnLevel:
		return ansiYellow
	default:
		return ansiBold
	}
}
