package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Attribute keys the ring lifts out of a record into Entry fields.
const (
	KeyCategory  = "category"
	KeySession   = "session_id"
	KeyUserAgent = "user_agent"
)

// Entry is one diagnostic record as shown by the log viewer.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	SessionID string         `json:"sessionId,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
}

type Filter struct {
	Level    string
	Category string
	Search   string
}

// Ring keeps the most recent entries; the oldest is overwritten first.
type Ring struct {
	mu    sync.Mutex
	buf   []Entry
	start int
	n     int
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = 1000
	}
	return &Ring{buf: make([]Entry, size)}
}

func (r *Ring) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = e
		r.n++
		return
	}
	r.buf[r.start] = e
	r.start = (r.start + 1) % len(r.buf)
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Entries returns matching entries, oldest first.
func (r *Ring) Entries(f Filter) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	search := strings.ToLower(f.Search)
	out := make([]Entry, 0, r.n)
	for i := 0; i < r.n; i++ {
		e := r.buf[(r.start+i)%len(r.buf)]
		if f.Level != "" && e.Level != f.Level {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if search != "" && !e.matches(search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (e Entry) matches(search string) bool {
	if strings.Contains(strings.ToLower(e.Message), search) {
		return true
	}
	if len(e.Data) == 0 {
		return false
	}
	data, _ := json.Marshal(e.Data)
	return strings.Contains(strings.ToLower(string(data)), search)
}

func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start, r.n = 0, 0
	clear(r.buf)
}

// Export renders every entry as indented JSON.
func (r *Ring) Export() ([]byte, error) {
	return json.MarshalIndent(r.Entries(Filter{}), "", "  ")
}

// RingHandler tees records into a Ring before passing them on.
type RingHandler struct {
	next   slog.Handler
	ring   *Ring
	attrs  []slog.Attr
	prefix string
}

func NewRingHandler(next slog.Handler, ring *Ring) *RingHandler {
	return &RingHandler{next: next, ring: ring}
}

func (h *RingHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *RingHandler) Handle(ctx context.Context, rec slog.Record) error {
	e := Entry{Timestamp: rec.Time, Level: levelName(rec.Level), Message: rec.Message}
	data := map[string]any{}
	collect := func(prefix string, a slog.Attr) {
		a.Value = a.Value.Resolve()
		switch a.Key {
		case KeyCategory:
			e.Category = a.Value.String()
			return
		case KeySession:
			e.SessionID = a.Value.String()
			return
		case KeyUserAgent:
			e.UserAgent = a.Value.String()
			return
		}
		data[prefix+a.Key] = attrValue(a.Value)
	}
	for _, a := range h.attrs {
		collect("", a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		collect(h.prefix, a)
		return true
	})
	if len(data) > 0 {
		e.Data = data
	}
	h.ring.Add(e)
	return h.next.Handle(ctx, rec)
}

func (h *RingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		merged = append(merged, a)
	}
	return &RingHandler{next: h.next.WithAttrs(attrs), ring: h.ring, attrs: merged, prefix: h.prefix}
}

func (h *RingHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &RingHandler{next: h.next.WithGroup(name), ring: h.ring, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindGroup:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		if s, ok := v.Any().(fmt.Stringer); ok {
			return s.String()
		}
	}
	return v.Any()
}

// NewSessionID mints an id of the form session_<unix-ms>_<9 chars>.
func NewSessionID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}
