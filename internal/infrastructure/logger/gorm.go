package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// sqlLevels maps the application log level onto gorm's coarser scale
var sqlLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
	"debug":  gormlogger.Info,
}

// SQLLogLevel converts a configured level name; unknown names mean warn
func SQLLogLevel(name string) gormlogger.LogLevel {
	if lvl, ok := sqlLevels[name]; ok {
		return lvl
	}
	return gormlogger.Warn
}

// SQLLogger writes gorm output to zap. Statements run under a request
// context go to that request's logger.
type SQLLogger struct {
	base  *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// NewSQLLogger reports statements slower than slow as warnings; zero turns
// slow query reporting off.
func NewSQLLogger(base *zap.Logger, level gormlogger.LogLevel, slow time.Duration) *SQLLogger {
	return &SQLLogger{base: base.Named("gorm"), level: level, slow: slow}
}

func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *SQLLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *SQLLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *SQLLogger) printf(ctx context.Context, need gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level >= need {
		l.forContext(ctx).Log(lvl, fmt.Sprintf(msg, data...))
	}
}

// Trace logs failed statements at error, slow ones at warn and everything
// else at debug when the level is info. A missing row is not a failure.
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl zapcore.Level
		msg string
	)
	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound):
		if l.level < gormlogger.Error {
			return
		}
		lvl, msg = zapcore.ErrorLevel, "SQL Error"
	case l.slow > 0 && elapsed > l.slow:
		if l.level < gormlogger.Warn {
			return
		}
		lvl, msg = zapcore.WarnLevel, fmt.Sprintf("SLOW SQL >= %v", l.slow)
	case l.level >= gormlogger.Info:
		lvl, msg = zapcore.DebugLevel, "SQL Query"
	default:
		return
	}

	sql, rows := fc()
	l.forContext(ctx).Log(lvl, msg,
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
		zap.Error(err),
	)
}

func (l *SQLLogger) forContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if reqLogger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
			return reqLogger.Named("gorm")
		}
	}
	return l.base
}

var _ gormlogger.Interface = (*SQLLogger)(nil)
