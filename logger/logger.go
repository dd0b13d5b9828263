package logger

import (
	"os"

	"go.uber.org/zap"
)

// Log is a no-op until Init runs, so packages can log unconditionally (and
// tests don't have to set it up).
var Log = zap.NewNop().Sugar()

// Init sets up the global sugared logger. LOG_MODE=development switches to
// the console encoder for local runs.
func Init() {
	var (
		zl  *zap.Logger
		err error
	)
	if os.Getenv("LOG_MODE") == "development" {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = zl.Sugar()
}
