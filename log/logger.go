package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

const (
	colorFormat   = `%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`
	noColorFormat = `[%{time:15:04:05.000}] [%{module}] [%{level}] %{message}`
)

var (
	mutex sync.Mutex

	// The internal leveled logger backend and its current configuration.
	leveledBackend logging.LeveledBackend
	sink           io.Writer = os.Stdout
	level                    = Notice
	useColors                = true
)

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Override the backend output sink.
func SetSink(w io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	sink = w
	rebuildBackend()
}

// Enable or disable colored output.
func SetColors(enabled bool) {
	mutex.Lock()
	defer mutex.Unlock()
	useColors = enabled
	rebuildBackend()
}

// Set logger verbosity.
func SetLevel(l Level) {
	mutex.Lock()
	defer mutex.Unlock()
	level = l
	leveledBackend.SetLevel(toLoggingLevel(l), "")
}

// Parse a level name (debug, info, notice, warning or error).
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "notice":
		return Notice, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return Notice, fmt.Errorf("log: unknown level '%s'", name)
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Notice:
		return "notice"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

func toLoggingLevel(l Level) logging.Level {
	switch l {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	}
	return logging.NOTICE
}

// Must be called while holding mutex.
func rebuildBackend() {
	format := noColorFormat
	if useColors {
		format = colorFormat
	}

	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, logging.MustStringFormatter(format))
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	leveledBackend.SetLevel(toLoggingLevel(level), "")
	logging.SetBackend(leveledBackend)
}

func init() {
	mutex.Lock()
	defer mutex.Unlock()
	rebuildBackend()
}
