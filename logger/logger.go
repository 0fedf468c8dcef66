package logger

import (
	"go.uber.org/zap"
)

// Log is a nop logger until Init is called, so packages can log from tests
// without any setup.
var Log = zap.NewNop().Sugar()

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
