// Package logger adapts zap to the engine's logging port. Every session gets
// its own JSON log file under ./log plus a console echo at info level.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"page-pilot/internal/application/port/output"
)

var _ output.LoggerPort = (*Adapter)(nil)

type Adapter struct {
	sugar *zap.SugaredLogger
	base  *zap.Logger
	file  *os.File
}

// New opens the session log file and builds the zap pipeline behind the port.
// The file core records everything; the console core stays at info.
func New(sessionName string) (*Adapter, error) {
	safeName := sanitize(sessionName)
	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), safeName)

	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.Create(filepath.Join("log", filename))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zapcore.DebugLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), zapcore.InfoLevel),
	)
	base := zap.New(core)

	return &Adapter{
		sugar: base.Sugar(),
		base:  base,
		file:  file,
	}, nil
}

func (a *Adapter) Debug(msg string, args ...any) { a.sugar.Debugw(msg, args...) }
func (a *Adapter) Info(msg string, args ...any)  { a.sugar.Infow(msg, args...) }
func (a *Adapter) Warn(msg string, args ...any)  { a.sugar.Warnw(msg, args...) }
func (a *Adapter) Error(msg string, args ...any) { a.sugar.Errorw(msg, args...) }

func (a *Adapter) WithField(key string, value any) output.LoggerPort {
	return &Adapter{
		sugar: a.sugar.With(key, value),
		base:  a.base,
		file:  a.file,
	}
}

func (a *Adapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Adapter{
		sugar: a.sugar.With(args...),
		base:  a.base,
		file:  a.file,
	}
}

func (a *Adapter) Close() error {
	_ = a.base.Sync()
	if a.file == nil {
		return nil
	}
	return a.file.Close()
}

// sanitize makes a session name safe for the filesystem.
func sanitize(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	s = string(result)
	if s == "" {
		return "session"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
