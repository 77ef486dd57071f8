package ecs

import "github.com/rs/zerolog"

// zerologAdapter implements Logger on top of zerolog, the structured-logging
// backend Admin.UpdateSimulation writes tick events through.
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps z as a Logger.
func NewZerologLogger(z zerolog.Logger) Logger {
	return &zerologAdapter{logger: z}
}

func (a *zerologAdapter) With(key string, value any) Logger {
	return &zerologAdapter{logger: a.logger.With().Interface(key, value).Logger()}
}

func (a *zerologAdapter) Info(msg string, args ...any) {
	a.logger.Info().Fields(argsToFields(args)).Msg(msg)
}

func (a *zerologAdapter) Error(msg string, args ...any) {
	a.logger.Error().Fields(argsToFields(args)).Msg(msg)
}

// argsToFields folds a flat key/value... slice, the convention every
// Logger.Info/Error caller in this module uses, into zerolog's map form.
func argsToFields(args []any) map[string]any {
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

var _ Logger = (*zerologAdapter)(nil)
