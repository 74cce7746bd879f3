package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/editor.log"

// DefaultMaxLines is how many recent lines the console keeps when not configured.
const DefaultMaxLines = 1000

// Options configure New. An empty Path disables the file output.
type Options struct {
	Path     string
	Debug    bool
	MaxLines int
}

// Logger is a zap.SugaredLogger that also keeps the most recent lines in memory for
// the in-editor console.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
	ring  *ring
	close func()
}

// New builds a logger writing ISO8601-stamped JSON to opts.Path and short console lines
// to the in-memory ring.
func New(opts Options) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Debug {
		level.SetLevel(zap.DebugLevel)
	}
	r := newRing(opts.MaxLines)

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleCfg.CallerKey = zapcore.OmitKey
	consoleCfg.ConsoleSeparator = " "
	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), r, level)}

	closeFn := func() {}
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, err
		}
		ws, c, err := zap.Open(opts.Path)
		if err != nil {
			return nil, err
		}
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), ws, level))
		closeFn = c
	}

	z := zap.New(zapcore.NewTee(cores...))
	return &Logger{SugaredLogger: z.Sugar(), level: level, ring: r, close: closeFn}, nil
}

// Nop returns a logger that only fills the in-memory ring.
func Nop() *Logger {
	l, _ := New(Options{})
	return l
}

// Log records a plain line at info level, e.g. a command typed into the console.
func (l *Logger) Log(line string) {
	l.Info(line)
}

// Lines returns a copy of the retained console lines, oldest first.
func (l *Logger) Lines() []string {
	return l.ring.lines()
}

// ClearLines empties the console history. The log file is untouched.
func (l *Logger) ClearLines() {
	l.ring.reset()
}

// SetDebug switches debug logging on or off at runtime.
func (l *Logger) SetDebug(on bool) {
	if on {
		l.level.SetLevel(zap.DebugLevel)
	} else {
		l.level.SetLevel(zap.InfoLevel)
	}
}

// SetMaxLines resizes the console ring, dropping the oldest lines if it shrinks.
func (l *Logger) SetMaxLines(n int) {
	l.ring.resize(n)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	err := l.Sync()
	l.close()
	return err
}

// ring is a zapcore.WriteSyncer keeping the last max lines written to it.
type ring struct {
	mu  sync.Mutex
	buf []string
	max int
}

func newRing(max int) *ring {
	if max <= 0 {
		max = DefaultMaxLines
	}
	return &ring{max: max}
}

func (r *ring) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		r.buf = append(r.buf, strings.ReplaceAll(line, "\t", " "))
	}
	r.trim()
	return len(p), nil
}

func (r *ring) Sync() error { return nil }

func (r *ring) trim() {
	if over := len(r.buf) - r.max; over > 0 {
		r.buf = append(r.buf[:0], r.buf[over:]...)
	}
}

func (r *ring) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.buf))
	copy(out, r.buf)
	return out
}

func (r *ring) reset() {
	r.mu.Lock()
	r.buf = nil
	r.mu.Unlock()
}

func (r *ring) resize(n int) {
	if n <= 0 {
		n = DefaultMaxLines
	}
	r.mu.Lock()
	r.max = n
	r.trim()
	r.mu.Unlock()
}
