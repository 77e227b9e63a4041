package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// OutputRouterHook routes log entries to stdout or stderr based on log_type
type OutputRouterHook struct {
	UserFormatter logrus.Formatter
	OpFormatter   logrus.Formatter
	UserWriter    io.Writer
	OpWriter      io.Writer

	mu sync.Mutex
}

// NewOutputRouterHook creates a new output router hook
func NewOutputRouterHook() *OutputRouterHook {
	return &OutputRouterHook{
		UserFormatter: &CLIFormatter{
			DisableTimestamp: true,
			DisableLevel:     true,
		},
		OpFormatter: &CLIFormatter{},
		UserWriter:  os.Stdout,
		OpWriter:    os.Stderr,
	}
}

func (h *OutputRouterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *OutputRouterHook) Fire(entry *logrus.Entry) error {
	logType, _ := entry.Data["log_type"].(string)

	formatter, writer := h.OpFormatter, h.OpWriter
	if logType == string(UserLog) {
		formatter, writer = h.UserFormatter, h.UserWriter

		// The entry is shared with other hooks, so format a copy.
		if emoji, ok := entry.Data["emoji"].(string); ok && emoji != "" {
			dup := *entry
			dup.Message = emoji + " " + entry.Message
			entry = &dup
		}
	}

	out, err := formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = writer.Write(out)
	return err
}
