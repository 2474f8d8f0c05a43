package logsvc

import (
	"sync"

	"github.com/trezcool/tadika/core"
)

// Entry is a message recorded by a Recorder.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Recorder is a core.Logger keeping every message in memory, for tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*Recorder)(nil)

func NewRecorder() *Recorder { return new(Recorder) }

// NewNopLogger returns a logger that drops everything.
func NewNopLogger() core.Logger { return nopLogger{} }

func (r *Recorder) record(level, msg string, args []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Args: args})
}

// Entries returns a copy of the recorded messages.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

func (r *Recorder) Debug(msg string, args ...interface{}) { r.record("debug", msg, args) }
func (r *Recorder) Info(msg string, args ...interface{})  { r.record("info", msg, args) }
func (r *Recorder) Warn(msg string, args ...interface{})  { r.record("warn", msg, args) }
func (r *Recorder) Error(msg string, args ...interface{}) { r.record("error", msg, args) }
func (r *Recorder) Fatal(msg string, args ...interface{}) { r.record("fatal", msg, args) }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
