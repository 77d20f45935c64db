package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold is the latency above which a query is logged at Warn.
const slowQueryThreshold = 200 * time.Millisecond

// GormZapLogger routes GORM's internal logging through zap so the database
// layer shares the application's log files and levels.
type GormZapLogger struct {
	zap   *zap.Logger
	level gormlogger.LogLevel
}

// NewGormZapLogger wraps a zap logger for GORM. Warn is the default level;
// query tracing at Info is far too chatty for a screening session loop.
func NewGormZapLogger(z *zap.Logger) *GormZapLogger {
	return &GormZapLogger{zap: z, level: gormlogger.Warn}
}

func (l *GormZapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormZapLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.zap.Sugar().Infof(msg, args...)
	}
}

func (l *GormZapLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.zap.Sugar().Warnf(msg, args...)
	}
}

func (l *GormZapLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.zap.Sugar().Errorf(msg, args...)
	}
}

// Trace logs each executed statement. ErrRecordNotFound is not an error at
// this layer: the report endpoint probes for rows that legitimately may not
// exist yet.
func (l *GormZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.zap.Error("Query failed", append(fields, zap.Error(err))...)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		l.zap.Warn("Slow query", fields...)
	case l.level >= gormlogger.Info:
		l.zap.Info("Query", fields...)
	}
}
