// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	LogContainer     logContainer
	loggerInit       sync.Once
	simpleLoggerInit sync.Once
)

type logContainer struct {
	logger       *zap.Logger
	simpleLogger *zap.SugaredLogger
}

// GetLogger returns the pointer to the logger and creates one if none exists
func (l *logContainer) GetLogger() *zap.Logger {
	loggerInit.Do(func() {
		l.logger = zap.New(getCombinedCore())
	})
	return l.logger
}

// GetSimpleLogger returns the pointer to the sugared logger and creates one
// if none exists
func (l *logContainer) GetSimpleLogger() *zap.SugaredLogger {
	simpleLoggerInit.Do(func() {
		logger := zap.New(getCombinedCore())
		l.simpleLogger = logger.Sugar()
	})
	return l.simpleLogger
}

func getConsoleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func getJsonEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.EpochTimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

func getConsoleCore() zapcore.Core {
	level := zapcore.InfoLevel
	if os.Getenv("JZLCD_DEBUG") != "" {
		level = zapcore.DebugLevel
	}
	return zapcore.NewCore(getConsoleEncoder(), zapcore.AddSync(os.Stderr), level)
}

// getCombinedCore tees the console log into a JSON logfile when one is
// requested through the environment.
func getCombinedCore() zapcore.Core {
	path := os.Getenv("JZLCD_LOGFILE")
	if path == "" {
		return getConsoleCore()
	}
	f, err := os.Create(path)
	if err != nil {
		return getConsoleCore()
	}
	jsonCore := zapcore.NewCore(getJsonEncoder(), zapcore.AddSync(f), zapcore.InfoLevel)
	return zapcore.NewTee(getConsoleCore(), jsonCore)
}
