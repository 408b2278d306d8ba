package log

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"time"
)

// bridgeHandler is a slog.Handler that routes records through the
// formatter/output pipeline a BaseLogger was built with. It backs every
// BaseLogger.slogLogger (used by Debugf/Infof/etc. and by RedirectStdLog
// to capture the stdlib log output Pebble writes to).
type bridgeHandler struct {
	logger *BaseLogger
	attrs  []slog.Attr
	group  string
}

func newBridgeHandler(logger *BaseLogger) *bridgeHandler {
	return &bridgeHandler{logger: logger}
}

// Enabled gates by the BaseLogger level.
func (h *bridgeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.level <= fromSlogLevel(level)
}

// Handle converts the slog record to an Entry and writes it through the
// logger's formatter and outputs.
func (h *bridgeHandler) Handle(_ context.Context, r slog.Record) error {
	fields := Fields{}
	for i := range h.attrs {
		a := h.attrs[i]
		fields[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})

	caller := ""
	if pc := r.PC; pc != 0 {
		if fn := runtime.FuncForPC(pc); fn != nil {
			file, line := fn.FileLine(pc)
			caller = file + ":" + itoa(line)
		}
	} else if _, file, line, ok := runtime.Caller(5); ok {
		caller = file + ":" + itoa(line)
	}

	entry := &Entry{
		Level:     fromSlogLevel(r.Level),
		Message:   r.Message,
		Fields:    fields,
		Timestamp: r.Time,
		Caller:    caller,
	}
	return writeEntry(h.logger, entry)
}

// WithAttrs returns a copy of the handler with additional base attributes.
func (h *bridgeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	if len(attrs) > 0 {
		nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	}
	return &nh
}

// WithGroup returns a copy of the handler; grouping is stored but otherwise
// not used by the pipeline.
func (h *bridgeHandler) WithGroup(name string) slog.Handler {
	nh := *h
	nh.group = name
	return &nh
}

// writeEntry formats entry and writes it to every output the logger was
// configured with. Shared by bridgeHandler.Handle and DispatchBridge so a
// dispatch-layer panic lands through the same pipeline as an ordinary log
// call.
func writeEntry(logger *BaseLogger, entry *Entry) error {
	formatted, err := logger.formatter.Format(entry)
	if err != nil {
		return err
	}
	for _, out := range logger.outputs {
		_ = out.Write(entry, formatted)
	}
	return nil
}

// DispatchBridge adapts a Logger to pkg/mqproc's Observer interface by
// structural typing: it implements ConsumerPanicked(key, value, recovered
// any, stack []byte) without pkg/mqproc importing this package. A
// panicking Consumer is logged through the same formatter/output pipeline
// as any other Entry instead of being silently discarded inside the
// worker pool.
type DispatchBridge struct {
	logger *BaseLogger
}

// NewDispatchBridge wraps logger for registration via mqproc.SetObserver.
// Panics if logger was not built with NewLogger in this package.
func NewDispatchBridge(logger Logger) *DispatchBridge {
	bl, ok := logger.(*BaseLogger)
	if !ok {
		panic("log: NewDispatchBridge requires a *BaseLogger")
	}
	return &DispatchBridge{logger: bl}
}

// ConsumerPanicked logs a recovered consumer panic at ErrorLevel with the
// dispatch key, the value being delivered, the recovered value, and the
// captured stack trace as structured fields.
func (b *DispatchBridge) ConsumerPanicked(key any, value any, recovered any, stack []byte) {
	entry := &Entry{
		Level:   ErrorLevel,
		Message: "consumer panic recovered",
		Fields: Fields{
			"key":       key,
			"value":     value,
			"recovered": recovered,
			"stack":     string(stack),
		},
		Timestamp: time.Now(),
	}
	_ = writeEntry(b.logger, entry)
}

// Helper: map our Level to slog.Level
func toSlogLevel(level Level) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel, FatalLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper: map slog.Level to our Level
func fromSlogLevel(level slog.Level) Level {
	switch {
	case level <= slog.LevelDebug:
		return DebugLevel
	case level == slog.LevelInfo:
		return InfoLevel
	case level == slog.LevelWarn:
		return WarnLevel
	default:
		return ErrorLevel
	}
}

// Helper: convert Field slice to slog attrs
func attrsFromFieldSlice(fields []Field) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	return attrs
}

// argsToAttrs converts key-value variadic args (k1, v1, k2, v2, ...) to slog.Attr.
func argsToAttrs(args []interface{}) []slog.Attr {
	if len(args) == 0 {
		return nil
	}
	attrs := make([]slog.Attr, 0, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			if key, ok := args[i].(string); ok {
				attrs = append(attrs, slog.Any(key, args[i+1]))
			} else {
				attrs = append(attrs, slog.Any("arg"+strconv.Itoa(i), args[i+1]))
			}
		} else {
			attrs = append(attrs, slog.Any("arg"+strconv.Itoa(i), args[i]))
		}
	}
	return attrs
}

// attrsToAny converts []slog.Attr to []any for slog.Logger.With.
func attrsToAny(attrs []slog.Attr) []any {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]any, len(attrs))
	for i := range attrs {
		out[i] = attrs[i]
	}
	return out
}

// itoa is a small fast int to string for non-negative numbers.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	// Max 20 digits for int64, int is enough
	var buf [20]byte
	bp := len(buf)
	for i > 0 {
		bp--
		buf[bp] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[bp:])
}
