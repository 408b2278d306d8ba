package log

import (
	"context"
	"log/slog"
	"os"
)

func (l *BaseLogger) clone() *BaseLogger {
	fields := make(Fields, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &BaseLogger{
		level:      l.level,
		fields:     fields,
		formatter:  l.formatter,
		outputs:    l.outputs,
		slogLogger: l.slogLogger,
	}
}

// With returns a derived Logger carrying fields in addition to any already
// attached. The receiver is left unchanged.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	nl := l.clone()
	for _, f := range fields {
		nl.fields[f.Key] = f.Value
	}
	nl.slogLogger = slog.New(l.slogLogger.Handler().WithAttrs(attrsFromFieldSlice(fields)))
	return nl
}

func (l *BaseLogger) WithField(key string, value interface{}) Logger {
	return l.With(Field{Key: key, Value: value})
}

func (l *BaseLogger) WithFields(fields Fields) Logger {
	fs := make([]Field, 0, len(fields))
	for k, v := range fields {
		fs = append(fs, Field{Key: k, Value: v})
	}
	return l.With(fs...)
}

func (l *BaseLogger) WithError(err error) Logger { return l.With(Err(err)) }

func (l *BaseLogger) WithComponent(component string) Logger { return l.With(Component(component)) }

func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	extracted := ContextExtractor(ctx)
	if len(extracted) == 0 {
		return l
	}
	fs := make([]Field, 0, len(extracted))
	for k, v := range extracted {
		fs = append(fs, Field{Key: k, Value: v})
	}
	return l.With(fs...)
}

func (l *BaseLogger) SetLevel(level Level) { l.level = level }

func (l *BaseLogger) GetLevel() Level { return l.level }

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.logFields(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.logFields(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.logFields(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.logFields(ErrorLevel, msg, fields) }

func (l *BaseLogger) Fatal(msg string, fields ...Field) {
	l.logFields(FatalLevel, msg, fields)
	os.Exit(1)
}

func (l *BaseLogger) logFields(level Level, msg string, fields []Field) {
	l.slogLogger.Log(context.Background(), toSlogLevel(level), msg, attrsToAny(attrsFromFieldSlice(fields))...)
}

// Debugf, Infof, Warnf, Errorf, and Fatalf take alternating key/value
// pairs rather than printf verbs, preserved for callers migrated from an
// older key-value logging API.
func (l *BaseLogger) Debugf(msg string, args ...interface{}) { l.logArgs(DebugLevel, msg, args) }
func (l *BaseLogger) Infof(msg string, args ...interface{})  { l.logArgs(InfoLevel, msg, args) }
func (l *BaseLogger) Warnf(msg string, args ...interface{})  { l.logArgs(WarnLevel, msg, args) }
func (l *BaseLogger) Errorf(msg string, args ...interface{}) { l.logArgs(ErrorLevel, msg, args) }

func (l *BaseLogger) Fatalf(msg string, args ...interface{}) {
	l.logArgs(FatalLevel, msg, args)
	os.Exit(1)
}

func (l *BaseLogger) logArgs(level Level, msg string, args []interface{}) {
	l.slogLogger.Log(context.Background(), toSlogLevel(level), msg, attrsToAny(argsToAttrs(args))...)
}
