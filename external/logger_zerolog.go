package external

import "github.com/rs/zerolog"

// zerologLogger implements Logger on top of zerolog, the same backend the
// root ecs package's own Logger adapter uses, so a single zerolog.Logger can
// back both the Kernel's external.Logger and the archetype Admin's ecs.Logger.
type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps z as a Logger.
func NewZerologLogger(z zerolog.Logger) Logger {
	return &zerologLogger{logger: z}
}

func (l *zerologLogger) With(key string, value any) Logger {
	return &zerologLogger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *zerologLogger) Info(msg string, args ...any) {
	l.logger.Info().Fields(fieldsFromArgs(args)).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, args ...any) {
	l.logger.Warn().Fields(fieldsFromArgs(args)).Msg(msg)
}

func (l *zerologLogger) Error(msg string, args ...any) {
	l.logger.Error().Fields(fieldsFromArgs(args)).Msg(msg)
}

func fieldsFromArgs(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}

var _ Logger = (*zerologLogger)(nil)
