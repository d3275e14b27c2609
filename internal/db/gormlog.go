package db

import (
	"fmt"
	"time"

	"vigat-bahee/internal/config"
	"vigat-bahee/pkg/logger"

	gormlogger "gorm.io/gorm/logger"
)

// slogWriter routes gorm's printf-style output into the service logger.
type slogWriter struct {
	log logger.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.log.Warn("db: " + fmt.Sprintf(format, args...))
}

// newGormLogger reports slow queries and errors by default; every statement
// when SQL logging is on.
func newGormLogger(cfg config.DBConfig, log logger.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if cfg.LogSQL {
		level = gormlogger.Info
	}
	slow := cfg.SlowQuery
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	return gormlogger.New(slogWriter{log: log}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}
