package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogType tags an entry so OutputRouterHook can route it: task-facing
// messages go to stdout, S3 and HTTP call details to stderr.
type LogType string

const (
	UserLog LogType = "user"
	OpLog   LogType = "op"
)

// UnifiedLogger owns the single logrus instance behind User and Op. Setup
// reconfigures it once flags are parsed; until then it prints plain
// messages to stdout so package init code can log.
type UnifiedLogger struct {
	mu     sync.RWMutex
	logger *logrus.Logger
}

var (
	unifiedLog *UnifiedLogger
	once       sync.Once
)

func GetLogger() *UnifiedLogger {
	once.Do(func() {
		l := logrus.New()
		l.SetOutput(os.Stdout)
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&CLIFormatter{DisableTimestamp: true, DisableLevel: true})
		unifiedLog = &UnifiedLogger{logger: l}
	})
	return unifiedLog
}

// Configure swaps output, level and formatter under the write lock.
func (l *UnifiedLogger) Configure(output io.Writer, level logrus.Level, formatter logrus.Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(output)
	l.logger.SetLevel(level)
	l.logger.SetFormatter(formatter)
}

func (l *UnifiedLogger) GetInternalLogger() *logrus.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}
