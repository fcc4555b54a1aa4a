package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const filteredKey = "_filtered"

// AsyncHook buffers entries and writes them from a dedicated goroutine.
// When the buffer is full new entries are dropped rather than blocking.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHookWithWriters starts the drain goroutine for the given writers.
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	h.wg.Add(1)
	go h.processEntries()
	return h
}

func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()

	if closed {
		data, err := format(entry)
		if err != nil {
			return err
		}
		for _, w := range h.writers {
			_, _ = w.Write(data)
		}
		return nil
	}

	select {
	case h.entries <- entry.Dup():
	default:
	}
	return nil
}

func (h *AsyncHook) processEntries() {
	defer h.wg.Done()

	for entry := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] recovered: %v\n", r)
					debug.PrintStack()
				}
			}()

			if filtered, ok := entry.Data[filteredKey].(bool); ok && filtered {
				return
			}
			delete(entry.Data, filteredKey)

			data, err := format(entry)
			if err != nil {
				return
			}
			for _, w := range h.writers {
				_, _ = w.Write(data)
			}
		}()
	}
}

// Close flushes pending entries and stops the drain goroutine.
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()
	return nil
}

func format(entry *logrus.Entry) ([]byte, error) {
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		return entry.Logger.Formatter.Format(entry)
	}
	line, err := entry.String()
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// FilterHook marks entries outside the configured module, endpoint or level
// allow lists; AsyncHook then skips them.
type FilterHook struct {
	modules   map[string]bool
	endpoints map[string]bool
	levels    map[string]bool
}

// NewFilterHook builds the allow lists from cfg.
func NewFilterHook(cfg *LogConfig) *FilterHook {
	return &FilterHook{
		modules:   parseFilter(cfg.FilterModules),
		endpoints: parseFilter(cfg.FilterEndpoints),
		levels:    parseFilter(cfg.FilterLevels),
	}
}

// parseFilter turns "a,b,c" into a lookup set. Empty input or "*" yields nil,
// which allows everything.
func parseFilter(s string) map[string]bool {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return nil
	}
	out := make(map[string]bool)
	for _, v := range strings.Split(s, ",") {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out[v] = true
		}
	}
	return out
}

func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *FilterHook) Fire(entry *logrus.Entry) error {
	if h.levels != nil && !h.levels[entry.Level.String()] {
		entry.Data[filteredKey] = true
		return nil
	}
	if h.modules != nil {
		if module, ok := entry.Data["module"].(string); ok && module != "" && !h.modules[strings.ToLower(module)] {
			entry.Data[filteredKey] = true
			return nil
		}
	}
	if h.endpoints != nil {
		if path, ok := entry.Data["path"].(string); ok && path != "" && !matchesPrefix(h.endpoints, strings.ToLower(path)) {
			entry.Data[filteredKey] = true
		}
	}
	return nil
}

func matchesPrefix(allowed map[string]bool, path string) bool {
	for prefix := range allowed {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
