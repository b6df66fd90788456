package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

var (
	mu      sync.RWMutex
	current = Info
	std     = stdlog.New(os.Stderr, "", stdlog.LstdFlags)
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "err", "error":
		return Error
	default:
		return Info
	}
}

func SetLevel(l Level) {
	mu.Lock()
	current = l
	mu.Unlock()
}

func CurrentLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetOutput leitet alle Logzeilen auf w um (Tests, CLI mit --quiet).
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func logf(l Level, format string, v ...any) {
	if CurrentLevel() > l {
		return
	}
	std.Printf("["+l.String()+"] "+format, v...)
}

func Debugf(format string, v ...any) { logf(Debug, format, v...) }
func Infof(format string, v ...any)  { logf(Info, format, v...) }
func Warnf(format string, v ...any)  { logf(Warn, format, v...) }
func Errorf(format string, v ...any) { logf(Error, format, v...) }

// InitFromEnvFallback setzt das Level aus der Config, TODOWEB_LOG_LEVEL gewinnt.
func InitFromEnvFallback(level string) {
	if env := os.Getenv("TODOWEB_LOG_LEVEL"); env != "" {
		level = env
	}
	SetLevel(ParseLevel(level))
}
