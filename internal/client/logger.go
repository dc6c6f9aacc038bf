package client

import "github.com/rs/zerolog"

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	l zerolog.Logger
}

func (z leveledLogger) Error(msg string, kv ...interface{}) { z.l.Error().Fields(kv).Msg(msg) }
func (z leveledLogger) Warn(msg string, kv ...interface{})  { z.l.Warn().Fields(kv).Msg(msg) }
func (z leveledLogger) Info(msg string, kv ...interface{})  { z.l.Debug().Fields(kv).Msg(msg) }
func (z leveledLogger) Debug(msg string, kv ...interface{}) { z.l.Trace().Fields(kv).Msg(msg) }
