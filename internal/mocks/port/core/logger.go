package core

import (
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/stretchr/testify/mock"
)

type Logger struct {
	mock.Mock
}

// NewPermissiveLogger returns a Logger that accepts any call, for tests that do not assert on logging
func NewPermissiveLogger() *Logger {
	l := &Logger{}
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		l.On(method, mock.Anything, mock.Anything).Maybe()
	}
	l.On("With", mock.Anything).Return(l).Maybe()
	l.On("Flush").Return(nil).Maybe()
	return l
}

func (l *Logger) SetLevel(level coreport.LogLevel) {
	l.Called(level)
}

func (l *Logger) GetLevel() coreport.LogLevel {
	args := l.Called()
	return args.Get(0).(coreport.LogLevel)
}

func (l *Logger) With(fields map[string]any) coreport.Logger {
	args := l.Called(fields)
	return args.Get(0).(coreport.Logger)
}

func (l *Logger) Debug(message string, fields map[string]any) {
	l.Called(message, fields)
}

func (l *Logger) Info(message string, fields map[string]any) {
	l.Called(message, fields)
}

func (l *Logger) Warn(message string, fields map[string]any) {
	l.Called(message, fields)
}

func (l *Logger) Error(message string, fields map[string]any) {
	l.Called(message, fields)
}

func (l *Logger) Flush() error {
	args := l.Called()
	return args.Error(0)
}
