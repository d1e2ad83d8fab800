package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent // Disables all logging
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "SILENT"}

// String returns the level name.
func (l Level) String() string {
	if l < LevelDebug || l > LevelSilent {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel parses a level string. Unrecognized input yields LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "TRACE":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "SILENT", "OFF", "NONE":
		return LevelSilent
	default:
		return LevelInfo
	}
}

// Format specifies the log output format.
type Format int

const (
	FormatText Format = iota // Human-readable key=value lines
	FormatJSON               // One JSON object per line
)

// ParseFormat accepts "text" or "json"; anything else yields FormatText.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Fields represents structured log fields.
type Fields map[string]any

// Logger writes leveled, structured log lines. A Logger and every logger
// derived from it with With or Named share one output lock.
type Logger struct {
	sink   *sink
	level  Level
	format Format
	color  bool
	fields Fields
	name   string
}

type sink struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// LoggerOption configures a logger.
type LoggerOption func(*Logger)

// WithOutput sets the output writer.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *Logger) { l.sink.out = w }
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *Logger) { l.level = level }
}

// WithFormat sets the output format.
func WithFormat(format Format) LoggerOption {
	return func(l *Logger) { l.format = format }
}

// WithColor enables ANSI level colors in text output.
func WithColor(enabled bool) LoggerOption {
	return func(l *Logger) { l.color = enabled }
}

// WithFields sets default fields for all log entries.
func WithFields(fields Fields) LoggerOption {
	return func(l *Logger) { l.fields = maps.Clone(fields) }
}

// WithName sets the logger name.
func WithName(name string) LoggerOption {
	return func(l *Logger) { l.name = name }
}

// WithClock replaces time.Now, for deterministic output in tests.
func WithClock(now func() time.Time) LoggerOption {
	return func(l *Logger) { l.sink.now = now }
}

// NewLogger creates a logger writing text at INFO to stderr unless options
// say otherwise.
func NewLogger(opts ...LoggerOption) *Logger {
	l := &Logger{
		sink:   &sink{out: os.Stderr, now: time.Now},
		level:  LevelInfo,
		format: FormatText,
		fields: Fields{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Logger) clone() *Logger {
	c := *l
	return &c
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields Fields) *Logger {
	c := l.clone()
	c.fields = make(Fields, len(l.fields)+len(fields))
	maps.Copy(c.fields, l.fields)
	maps.Copy(c.fields, fields)
	return c
}

// Named returns a child logger whose name is appended with a dot.
func (l *Logger) Named(name string) *Logger {
	c := l.clone()
	if l.name != "" {
		c.name = l.name + "." + name
	} else {
		c.name = name
	}
	return c
}

// Level returns the minimum level this logger writes.
func (l *Logger) Level() Level { return l.level }

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level && l.level != LevelSilent
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Fields) { l.log(LevelError, msg, fields) }

func (l *Logger) log(level Level, msg string, extra []Fields) {
	if !l.Enabled(level) {
		return
	}

	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = Fields{}
	}
	for _, f := range extra {
		maps.Copy(merged, f)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	ts := l.sink.now()
	var line []byte
	if l.format == FormatJSON {
		line = l.encodeJSON(ts, level, msg, merged)
	} else {
		line = l.encodeText(ts, level, msg, merged)
	}
	_, _ = l.sink.out.Write(line)
}

func (l *Logger) encodeJSON(ts time.Time, level Level, msg string, fields Fields) []byte {
	entry := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["time"] = ts.UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	if l.name != "" {
		entry["logger"] = l.name
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Appendf(nil, `{"level":"ERROR","msg":"log encoding failed","error":%q}`+"\n", err.Error())
	}
	return append(data, '\n')
}

func (l *Logger) encodeText(ts time.Time, level Level, msg string, fields Fields) []byte {
	var b strings.Builder
	b.WriteString(ts.Format("15:04:05.000"))
	b.WriteByte(' ')
	if l.color {
		b.WriteString(levelColor(level))
	}
	fmt.Fprintf(&b, "%-5s", level)
	if l.color {
		b.WriteString(colorReset)
	}
	b.WriteByte(' ')
	if l.name != "" {
		b.WriteString("[" + l.name + "] ")
	}
	b.WriteString(msg)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, " %s=%s", k, textValue(fields[k]))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// textValue quotes values containing spaces so lines stay splittable.
func textValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

func levelColor(level Level) string {
	switch level {
	case LevelDebug:
		return colorGray
	case LevelInfo:
		return colorBlue
	case LevelWarn:
		return colorYellow
	case LevelError:
		return colorRed
	default:
		return ""
	}
}

// --- Global Logger ---

var (
	globalLogger   = NewLogger()
	globalLoggerMu sync.RWMutex
)

// SetLogger replaces the global logger.
func SetLogger(l *Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = l
}

// GetLogger returns the global logger.
func GetLogger() *Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return NewLogger(WithOutput(io.Discard), WithLevel(LevelSilent))
}

// TestLogger returns a DEBUG text logger writing to w.
func TestLogger(w io.Writer) *Logger {
	return NewLogger(WithOutput(w), WithLevel(LevelDebug))
}
