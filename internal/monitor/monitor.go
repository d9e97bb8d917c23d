package monitor

import (
	"github.com/ankproject/ank-api/version"

	"github.com/sirupsen/logrus"
)

var logger = NewModuleLogger("monitor")

// IsProduction switches log formatting to JSON and hides sensitive fields and stack traces.
var IsProduction = false

const (
	// TokenF is a token field name that will be stripped from logs in production mode.
	TokenF = "token"
	// valueMask is what replaces sensitive fields contents in logs.
	valueMask = "****"
)

var jsonFormatter = logrus.JSONFormatter{DisableTimestamp: true}
var textFormatter = logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"}

// SetupLogging configures the standard logger and all module loggers created afterwards.
func SetupLogging(production bool) {
	IsProduction = production
	l := logrus.StandardLogger()
	configureLogger(l)
	configureLogger(logger.Logger)
	configureLogger(httpLogger.Logger)

	l.WithFields(
		version.BuildInfo(),
	).WithFields(logrus.Fields{
		"mode":     LogMode(),
		"logLevel": l.Level,
	}).Infof("standard logger configured")
}

func LogMode() string {
	if IsProduction {
		return "production"
	}
	return "develop"
}

func configureLogger(l *logrus.Logger) {
	if IsProduction {
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&jsonFormatter)
	} else {
		l.SetLevel(logrus.TraceLevel)
		l.SetFormatter(&textFormatter)
	}
}
