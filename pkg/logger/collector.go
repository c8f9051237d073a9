package logger

import (
	"sync"
	"time"
)

type CollectionConfig struct {
	Capacity int // max retained entries (oldest evicted first)
	Levels   []string
}

type Entry struct {
	Time    time.Time              `json:"time"`
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
	Caller  string                 `json:"caller"`
}

// LogCollector keeps a bounded in-memory window of recent log entries so
// the dashboard can surface them without touching the log output stream.
type LogCollector struct {
	mutex    sync.RWMutex
	capacity int
	levels   map[string]bool
	entries  []Entry
	next     int
	full     bool
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	capacity := config.Capacity
	if capacity <= 0 {
		capacity = 200
	}

	c := &LogCollector{
		capacity: capacity,
		entries:  make([]Entry, capacity),
	}
	if len(config.Levels) > 0 {
		c.levels = make(map[string]bool, len(config.Levels))
		for _, lvl := range config.Levels {
			c.levels[lvl] = true
		}
	}
	return c
}

func (d *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	if d.levels != nil && !d.levels[level] {
		return
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.entries[d.next] = Entry{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Fields:  fields,
		Caller:  caller,
	}
	d.next++
	if d.next == d.capacity {
		d.next = 0
		d.full = true
	}
}

// Recent returns up to n entries, newest first.
func (d *LogCollector) Recent(n int) []Entry {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	size := d.next
	if d.full {
		size = d.capacity
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (d.next - i + d.capacity) % d.capacity
		out = append(out, d.entries[idx])
	}
	return out
}

func (d *LogCollector) Close() {}
