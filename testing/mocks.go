package testing

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cpcf/lineage/project"
)

// FakeFinder is a hierarchy finder that returns canned items. Items are
// registered nearest-first per start path, the same order a real walk uses.
type FakeFinder struct {
	mu    sync.Mutex
	items map[string][]project.Item
	err   error
	calls []FinderCall
}

type FinderCall struct {
	Path     string
	FileName string
}

func NewFakeFinder() *FakeFinder {
	return &FakeFinder{
		items: make(map[string][]project.Item),
	}
}

// Set registers the walk result for path, nearest ancestor first.
func (f *FakeFinder) Set(path string, nearestFirst ...project.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[path] = nearestFirst
}

// Fail makes every subsequent call return err.
func (f *FakeFinder) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *FakeFinder) FindHierarchicalItems(path, fileName string) ([]project.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, FinderCall{Path: path, FileName: fileName})
	if f.err != nil {
		return nil, f.err
	}
	return append([]project.Item(nil), f.items[path]...), nil
}

func (f *FakeFinder) Calls() []FinderCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FinderCall(nil), f.calls...)
}

// LogRecorder is an slog.Handler that keeps every record it sees.
type LogRecorder struct {
	mu      *sync.Mutex
	records *[]LogEntry
	attrs   []slog.Attr
}

type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

func NewLogRecorder() *LogRecorder {
	return &LogRecorder{
		mu:      &sync.Mutex{},
		records: &[]LogEntry{},
	}
}

// Logger returns a logger that writes into the recorder.
func (lr *LogRecorder) Logger() *slog.Logger {
	return slog.New(lr)
}

func (lr *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (lr *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any),
	}
	for _, a := range lr.attrs {
		entry.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.Attrs[a.Key] = a.Value.Any()
		return true
	})

	lr.mu.Lock()
	defer lr.mu.Unlock()
	*lr.records = append(*lr.records, entry)
	return nil
}

func (lr *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogRecorder{
		mu:      lr.mu,
		records: lr.records,
		attrs:   append(append([]slog.Attr(nil), lr.attrs...), attrs...),
	}
}

// WithGroup is accepted but groups are flattened.
func (lr *LogRecorder) WithGroup(string) slog.Handler { return lr }

func (lr *LogRecorder) Entries() []LogEntry {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return append([]LogEntry(nil), *lr.records...)
}

// HasMessage reports whether any record at level contains msg.
func (lr *LogRecorder) HasMessage(level slog.Level, msg string) bool {
	for _, e := range lr.Entries() {
		if e.Level == level && strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}
