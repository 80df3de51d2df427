package logger

// CronLogger adapts Logger to the robfig/cron logging interface.
type CronLogger struct {
	log Logger
}

func NewCronLogger(log Logger) *CronLogger {
	return &CronLogger{log: log}
}

// Info is demoted to debug; cron logs every wake-up at info.
func (c *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(msg, keysAndValues...)
}

func (c *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(msg, append(keysAndValues, "error", err)...)
}
