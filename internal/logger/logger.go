package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	User *UserLogger // Task-facing messages (stdout) with emojis
	Op   *OpLogger   // Operational logs (stderr) with structured fields

	log *UnifiedLogger
)

func init() {
	log = GetLogger()
	User = &UserLogger{logger: log.GetInternalLogger()}
	Op = &OpLogger{logger: log.GetInternalLogger()}
}

type UserLogger struct {
	logger *logrus.Logger
}

type OpLogger struct {
	logger *logrus.Logger
}

func (u *UserLogger) entry(emoji string) *logrus.Entry {
	fields := logrus.Fields{"log_type": string(UserLog)}
	if emoji != "" {
		fields["emoji"] = emoji
	}
	return u.logger.WithFields(fields)
}

func (u *UserLogger) Info(msg string) {
	u.entry("").Info(msg)
}

func (u *UserLogger) Infof(format string, args ...interface{}) {
	u.entry("").Infof(format, args...)
}

func (u *UserLogger) Errorf(format string, args ...interface{}) {
	u.entry("❌").Errorf(format, args...)
}

func (u *UserLogger) Warnf(format string, args ...interface{}) {
	u.entry("⚠️").Warnf(format, args...)
}

func (u *UserLogger) Startingf(format string, args ...interface{}) {
	u.entry("🚀").Infof(format, args...)
}

func (u *UserLogger) Successf(format string, args ...interface{}) {
	u.entry("✅").Infof(format, args...)
}

// Uploadf reports object transfers.
func (u *UserLogger) Uploadf(format string, args ...interface{}) {
	u.entry("📤").Infof(format, args...)
}

func (u *UserLogger) Deletef(format string, args ...interface{}) {
	u.entry("🗑️").Infof(format, args...)
}

// Bucketf reports bucket-level changes (create, policy, website).
func (u *UserLogger) Bucketf(format string, args ...interface{}) {
	u.entry("🪣").Infof(format, args...)
}

func (o *OpLogger) entry() *logrus.Entry {
	return o.logger.WithField("log_type", string(OpLog))
}

func (o *OpLogger) Debug(msg string) {
	o.entry().Debug(msg)
}

func (o *OpLogger) Debugf(format string, args ...interface{}) {
	o.entry().Debugf(format, args...)
}

func (o *OpLogger) WithFields(fields map[string]interface{}) *logrus.Entry {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["log_type"] = string(OpLog)
	return o.logger.WithFields(fields)
}

// CLIFormatter provides clean output for CLI applications
type CLIFormatter struct {
	DisableTimestamp bool
	DisableLevel     bool
	DisableColors    bool
}

func (f *CLIFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	if f.DisableLevel && f.DisableTimestamp {
		b.WriteString(entry.Message)
		b.WriteByte('\n')
		return b.Bytes(), nil
	}

	if !f.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}

	if !f.DisableLevel {
		levelColor := ""
		resetColor := ""
		if !f.DisableColors {
			switch entry.Level {
			case logrus.ErrorLevel:
				levelColor = "\033[31m"
			case logrus.WarnLevel:
				levelColor = "\033[33m"
			case logrus.InfoLevel:
				levelColor = "\033[36m"
			case logrus.DebugLevel:
				levelColor = "\033[37m"
			}
			resetColor = "\033[0m"
		}

		b.WriteString(levelColor)
		b.WriteString(strings.ToUpper(entry.Level.String()))
		b.WriteString(resetColor)
		b.WriteString(": ")
	}

	b.WriteString(entry.Message)

	// Fields are sorted so repeated runs diff cleanly.
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == "log_type" || k == "emoji" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", k, entry.Data[k]))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func Setup(verbose bool, jsonLogs bool, quiet bool) {
	SetupWithWriters(verbose, jsonLogs, quiet, os.Stdout, os.Stderr)
}

// SetupWithWriters is Setup with explicit destinations for user and
// operational output.
func SetupWithWriters(verbose, jsonLogs, quiet bool, userOut, opOut io.Writer) {
	// Environment variables override CLI flags
	switch os.Getenv("LOG_MODE") {
	case "quiet":
		quiet, verbose = true, false
	case "verbose", "debug":
		verbose, quiet = true, false
	}

	switch os.Getenv("LOG_FORMAT") {
	case "json":
		jsonLogs = true
	case "text":
		jsonLogs = false
	}

	var level logrus.Level
	switch {
	case quiet:
		level = logrus.ErrorLevel
	case verbose:
		level = logrus.DebugLevel
	default:
		level = logrus.InfoLevel
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{}
	if jsonLogs {
		formatter = &logrus.JSONFormatter{}
	}
	// Output handled by hooks
	log.Configure(io.Discard, level, formatter)

	internalLogger := log.GetInternalLogger()
	internalLogger.Hooks = make(logrus.LevelHooks)

	hook := NewOutputRouterHook()
	hook.UserWriter = userOut
	hook.OpWriter = opOut

	if jsonLogs {
		hook.UserFormatter = &logrus.JSONFormatter{}
		hook.OpFormatter = &logrus.JSONFormatter{}
	} else {
		hook.UserFormatter = &CLIFormatter{
			DisableTimestamp: true,
			DisableLevel:     true,
		}
		colors := isTerminal(opOut)
		if verbose {
			hook.OpFormatter = &logrus.TextFormatter{
				FullTimestamp: true,
				ForceColors:   colors,
			}
		} else {
			hook.OpFormatter = &CLIFormatter{
				DisableTimestamp: true,
				DisableColors:    !colors,
			}
		}
	}

	internalLogger.AddHook(hook)

	User = &UserLogger{logger: internalLogger}
	Op = &OpLogger{logger: internalLogger}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
