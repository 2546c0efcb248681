// Package log provides the slog based application logger.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/philipparndt/mapmeasure/version"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLevel  = "MAPMEASURE_LOG_LEVEL"
	EnvFormat = "MAPMEASURE_LOG_FORMAT"
	EnvFile   = "MAPMEASURE_LOG_FILE"
	EnvSource = "MAPMEASURE_LOG_SOURCE"
)

// Options controls logger initialization.
// Level is debug|info|warn|error, Format is console|json.
// A non-empty File adds a rotated JSON log file.
type Options struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"source"`
	File      string `yaml:"file"`

	// Output replaces stderr for the console handler
	Output io.Writer `yaml:"-"`
}

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// L returns the application logger, initializing it from the environment on first use
func L() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Init configures the application logger and installs it as slog.Default
func Init(opts Options) {
	level := ParseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}))
	} else {
		handlers = append(handlers, &consoleHandler{level: level, source: opts.AddSource, w: out, mu: &sync.Mutex{}})
	}

	if file := strings.TrimSpace(opts.File); file != "" {
		w := &lj.Logger{Filename: file, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}

	logger := slog.New(h).With(
		slog.String("app", "mapmeasure"),
		slog.String("ver", version.GetVersion()),
	)

	mu.Lock()
	defaultLogger = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// FromEnv builds Options from the MAPMEASURE_LOG_* variables
func FromEnv() Options {
	return Options{
		Level:     getenv(EnvLevel, "info"),
		Format:    getenv(EnvFormat, "console"),
		AddSource: strings.EqualFold(os.Getenv(EnvSource), "true"),
		File:      os.Getenv(EnvFile),
	}
}

// WithComponent returns a logger tagged with a component name
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

// ParseLevel converts a level name into a slog level; unknown names mean info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}

// consoleHandler prints one line per record: time level message key=value...
type consoleHandler struct {
	level  slog.Level
	source bool
	w      io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.Format("15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(levelString(r.Level))
	b.WriteString(" ")
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})

	if h.source {
		if src := r.Source(); src != nil {
			b.WriteString(" src=")
			b.WriteString(src.File)
			b.WriteString(":")
			b.WriteString(strconv.Itoa(src.Line))
		}
	}
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), prefixed(h.prefix, attrs)...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func prefixed(prefix string, attrs []slog.Attr) []slog.Attr {
	if prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	return out
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	// app and ver are for the structured outputs
	if prefix == "" && (a.Key == "app" || a.Key == "ver") {
		return
	}
	b.WriteString(" ")
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteString("=")
	b.WriteString(valueString(a.Value.Resolve()))
}

func levelString(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	default:
		return l.String()
	}
}

func valueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return v.String()
	}
}
