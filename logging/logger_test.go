package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerSingleton(t *testing.T) {
	a := NewLogger("watcher")
	b := NewLogger("watcher")
	assert.Same(t, a, b, "repeated NewLogger calls for a component should return the same entry")

	c := NewLogger("search")
	assert.NotSame(t, a, c)
	assert.Equal(t, "search", c.Data["component"])
}

func TestFormatterOutput(t *testing.T) {
	f := &TextFormatter{colored: false}
	logger := logrus.New()
	entry := logger.WithField("component", "content").WithField("path", "a/b.txt")
	entry.Level = logrus.WarnLevel
	entry.Message = "read failed"

	out, err := f.Format(entry)
	assert.NoError(t, err)
	assert.Contains(t, string(out), "[WARN]")
	assert.Contains(t, string(out), "[content]")
	assert.Contains(t, string(out), "read failed")
	assert.Contains(t, string(out), "path=a/b.txt")
}
