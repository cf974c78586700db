package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/plenum/pkg/domain"
)

// allSections is the topic receiving every event.
const allSections = "*"

// Event is the SSE payload published for each section of a running parse.
type Event struct {
	Phase      string  `json:"phase"`
	Section    string  `json:"section"`
	Blocks     []int   `json:"blocks,omitempty"`
	Lines      int     `json:"lines"`
	Kind       string  `json:"kind,omitempty"`
	Degraded   bool    `json:"degraded,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms,omitempty"`
}

// StreamManager fans section events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	subscribers map[string]map[chan<- string]struct{} // topic -> set of channels
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		logger:      logger,
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a channel for topic, a section name or "*".
func (sm *StreamManager) Subscribe(topic string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[topic]; !ok {
		sm.subscribers[topic] = make(map[chan<- string]struct{})
	}
	sm.subscribers[topic][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[topic]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, topic)
			}
		}
	}
}

// Publish sends e to the subscribers of its section and of "*".
func (sm *StreamManager) Publish(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		sm.logger.Error("SSE: failed to encode event", "error", err)
		return
	}
	msg := string(payload)

	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for _, topic := range []string{e.Section, allSections} {
		for ch := range sm.subscribers[topic] {
			select {
			case ch <- msg:
			default:
				// Slow client.
				sm.logger.Warn("SSE: client buffer full, dropping event", "section", e.Section)
			}
		}
	}
}

// Hooks publishes section lifecycle events. Rule applications are too
// chatty for the stream and are left out.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSectionStart: func(_ context.Context, e *domain.SectionEvent) {
			sm.Publish(Event{Phase: "start", Section: e.Section, Blocks: e.Blocks, Lines: e.Lines})
		},
		OnSectionDone: func(_ context.Context, e *domain.SectionEvent) {
			ev := Event{
				Phase:      "done",
				Section:    e.Section,
				Blocks:     e.Blocks,
				Lines:      e.Lines,
				Kind:       string(e.Kind),
				Degraded:   e.Degraded,
				DurationMS: float64(e.Duration) / float64(time.Millisecond),
			}
			if e.Err != nil {
				ev.Error = e.Err.Error()
			}
			sm.Publish(ev)
		},
	}
}
