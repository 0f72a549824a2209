package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/gymstats/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the standard logrus logger. The returned func flushes pending sentry
// events and closes the log file; call it on shutdown.
func Setup(params LoggerSetupParams) func() {
	return setup(logrus.StandardLogger(), params)
}

func setup(logger *logrus.Logger, params LoggerSetupParams) func() {
	if params.LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	cleanup := []func(){}
	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logger.Errorf("sentry.Init: %s", err)
		} else {
			logger.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			cleanup = append(cleanup, func() { sentry.Flush(sentryFlushTimeout) })
			logger.Infoln("Sentry set up successfully")
		}
	}

	logger.SetLevel(GetLevel(params.LogLevel))

	closeAll := func() {
		for _, c := range cleanup {
			c()
		}
	}

	if params.LogFileName == "" {
		logger.SetOutput(os.Stdout)
		logger.Println("writing logs only to STDOUT")
		return closeAll
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}
	if err := pkg.EnsureDir(filepath.Dir(params.LogFileName)); err != nil {
		logger.SetOutput(os.Stdout)
		logger.Errorf("logs dir for [%s]: %s, writing logs only to STDOUT", params.LogFileName, err)
		return closeAll
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:  params.LogFileName,
		MaxSize:   50,    // megabytes
		LocalTime: false, // false -> use UTC
		Compress:  true,
		// rotated files are kept indefinitely
	}
	cleanup = append(cleanup, func() { _ = lumberJackLogger.Close() })

	var out io.Writer = lumberJackLogger
	if params.LogToStdout {
		out = pkg.NewCombinedWriter(os.Stdout, lumberJackLogger)
	}
	logger.SetOutput(out)

	if params.LogToStdout {
		logger.Println("writing logs to file and STDOUT")
	}
	return closeAll
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}
