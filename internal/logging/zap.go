package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where the zap logger writes.
type Config struct {
	// Path of the JSON log file. Empty disables the file.
	Path  string
	Debug bool
	// Console receives the human-readable stream; nil means stderr.
	Console io.Writer
	Rotate  FileWriterConfig
}

// ZapLogger adapts a zap logger to Logger. Components become logger names.
type ZapLogger struct {
	base    *zap.Logger
	session string
	file    *lumberjack.Logger

	mu    sync.Mutex
	named map[string]*zap.SugaredLogger
}

// New tees a console core and, when cfg.Path is set, a rotating JSON file
// core. Every entry carries the session id of this logger.
func New(cfg Config) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(NewConsoleEncoderConfig()), zapcore.AddSync(console), level),
	}

	var file *lumberjack.Logger
	if cfg.Path != "" {
		file = NewFileWriter(cfg.Path, cfg.Rotate)
		// lumberjack opens lazily; open now so a bad path fails here.
		if _, err := file.Write(nil); err != nil {
			return nil, fmt.Errorf("open log file %s: %w", cfg.Path, err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(NewEncoderConfig()), zapcore.AddSync(file), level))
	}

	l := NewFromCore(zapcore.NewTee(cores...))
	l.file = file
	return l, nil
}

// NewFromCore wraps an existing core; tests pass an observer core here.
func NewFromCore(core zapcore.Core) *ZapLogger {
	session := uuid.NewString()
	return &ZapLogger{
		base:    zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String(FieldSession, session)),
		session: session,
		named:   make(map[string]*zap.SugaredLogger),
	}
}

func (l *ZapLogger) Session() string { return l.session }

func (l *ZapLogger) component(name string) *zap.SugaredLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.named[name]
	if !ok {
		s = l.base.Named(name).Sugar()
		l.named[name] = s
	}
	return s
}

func (l *ZapLogger) Debugf(component string, format string, args ...interface{}) {
	l.component(component).Debugf(format, args...)
}

func (l *ZapLogger) Infof(component string, format string, args ...interface{}) {
	l.component(component).Infof(format, args...)
}

func (l *ZapLogger) Errorf(component string, format string, args ...interface{}) {
	l.component(component).Errorf(format, args...)
}

// Close flushes buffered entries and closes the log file.
func (l *ZapLogger) Close() error {
	_ = l.base.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
