package scheduler

import (
	"fmt"

	"github.com/aatumaykin/sessiond/internal/logger"
)

// cronLogger adapts internal/logger to the cron.Logger interface so the
// cron runtime's own messages land in the same event log.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, err, kvFields(keysAndValues)...)
}

// kvFields converts cron's flat key/value list into logger fields.
func kvFields(keysAndValues []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logger.Field{
			Key:   fmt.Sprintf("%v", keysAndValues[i]),
			Value: keysAndValues[i+1],
		})
	}
	return fields
}
