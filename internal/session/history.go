// Package session holds the conversation history for a chat session.
//
// History is owned by the caller of the answer pipeline: the pipeline appends
// a completed exchange after generation succeeds and never mutates history on
// failure. Growth is bounded by a configurable turn cap (oldest turns are
// evicted first) because the source system kept history unbounded in memory.
package session

import (
	"sync"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

// Turn roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation entry.
type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// DefaultMaxTurns bounds in-memory history growth. The cap is an eviction
// policy decision, not a protocol requirement: 200 turns comfortably covers
// a school-library chat session while keeping memory flat.
const DefaultMaxTurns = 200

// History is an append-only ordered sequence of turns with bounded growth.
//
// Safe for concurrent use. The zero value is not useful — use New.
type History struct {
	mu       sync.RWMutex
	turns    []Turn
	maxTurns int
}

// New creates a History bounded to maxTurns entries.
// maxTurns <= 0 selects DefaultMaxTurns; use NewUnbounded to opt out.
func New(maxTurns int) *History {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &History{maxTurns: maxTurns}
}

// NewUnbounded creates a History with no eviction. Callers that persist or
// export history externally own the growth tradeoff.
func NewUnbounded() *History {
	return &History{maxTurns: -1}
}

// Append adds a single turn, evicting the oldest turns beyond the cap.
func (h *History) Append(turn Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, turn)
	h.evictLocked()
}

// AddExchange appends a completed user/assistant pair.
// Called by the pipeline only after generation succeeds.
func (h *History) AddExchange(userInput, assistantResponse string) {
	now := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns,
		Turn{Role: RoleUser, Content: userInput, At: now},
		Turn{Role: RoleAssistant, Content: assistantResponse, At: now},
	)
	h.evictLocked()
}

// evictLocked drops the oldest turns beyond the cap. Caller holds mu.
func (h *History) evictLocked() {
	if h.maxTurns < 0 || len(h.turns) <= h.maxTurns {
		return
	}
	excess := len(h.turns) - h.maxTurns
	h.turns = append(h.turns[:0:0], h.turns[excess:]...)
}

// Turns returns a copy of all turns in order.
func (h *History) Turns() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Clear removes all turns.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}
