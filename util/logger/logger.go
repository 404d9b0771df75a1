// Package logger provides leveled logging for the daemon.
// The level is read once from LOG_LEVEL at process startup.
package logger

import (
	"fmt"
	"log"
	"os"

	"github.com/LuisLgl/Estado-de-Enlace/util/assert"
)

type LogLevel int

const (
	NONE LogLevel = iota
	WARN
	INFO
	DEBUG
)

const LOG_LEVEL_ENV = "LOG_LEVEL"

var logLevel LogLevel

func init() {
	envvar, present := os.LookupEnv(LOG_LEVEL_ENV)
	if !present {
		logLevel = INFO
		return
	}

	switch envvar {
	case "NONE":
		logLevel = NONE
	case "WARN":
		logLevel = WARN
	case "INFO":
		logLevel = INFO
	case "DEBUG":
		logLevel = DEBUG
	default:
		logLevel = INFO
		Warnf("unknown log level %q, defaulting to INFO", envvar)
	}
}

// Errorf prints an error message prefixed with "[ERROR] " and terminates the process.
func Errorf(format string, v ...any) {
	log.Fatalf(fmt.Sprintf("[ERROR] %s", format), v...)
	assert.Never()
}

// Warnf prints a message prefixed with "[WARN] ".
func Warnf(format string, v ...any) {
	if logLevel < WARN {
		return
	}
	log.Printf(fmt.Sprintf("[WARN] %s", format), v...)
}

// Infof prints an informational message prefixed with "[INFO] ".
func Infof(format string, v ...any) {
	if logLevel < INFO {
		return
	}
	log.Printf(fmt.Sprintf("[INFO] %s", format), v...)
}

// Debugf prints a debug message prefixed with "[DEBUG] ".
func Debugf(format string, v ...any) {
	if logLevel < DEBUG {
		return
	}
	log.Printf(fmt.Sprintf("[DEBUG] %s", format), v...)
}
