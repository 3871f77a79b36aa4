// Package approval manages interactive confirmation of soft-denied
// commands and remembers what each session has already approved.
//
// Hard denials never reach this package; the policy engine refuses those
// outright.
package approval

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/shellgate/shellgate/internal/event"
)

// Request asks the user to approve a command for a session. Patterns are
// the allow patterns that approval would add to the session allowlist.
type Request struct {
	ID        string   `json:"id"`
	SessionID string   `json:"sessionID"`
	Command   string   `json:"command"`
	Patterns  []string `json:"patterns,omitempty"`
}

// Response is the user's answer to a pending request.
type Response struct {
	RequestID string `json:"requestID"`
	Action    string `json:"action"` // "once" | "always" | "reject"
}

// RejectedError reports that the user refused a command.
type RejectedError struct {
	SessionID string
	Command   string
	Message   string
}

func (e *RejectedError) Error() string { return e.Message }

// IsRejected reports whether err is a user rejection.
func IsRejected(err error) bool {
	_, ok := err.(*RejectedError)
	return ok
}

// Broker holds per-session approved patterns and routes pending asks to
// their responses. Safe for concurrent use.
type Broker struct {
	mu       sync.RWMutex
	sessions map[string]map[string]bool // sessionID -> approved pattern
	order    map[string][]string        // insertion order per session
	pending  map[string]chan Response   // requestID -> response channel
}

// NewBroker creates an empty approval broker.
func NewBroker() *Broker {
	return &Broker{
		sessions: make(map[string]map[string]bool),
		order:    make(map[string][]string),
		pending:  make(map[string]chan Response),
	}
}

// Ask blocks until the user answers the request or ctx is done. An
// "always" answer records the request's patterns for the session.
func (b *Broker) Ask(ctx context.Context, req Request) error {
	if b.approved(req.SessionID, req.Patterns) {
		return nil
	}

	if req.ID == "" {
		req.ID = ulid.Make().String()
	}

	respChan := make(chan Response, 1)
	b.mu.Lock()
	b.pending[req.ID] = respChan
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, req.ID)
		b.mu.Unlock()
	}()

	event.Publish(event.Event{
		Type: event.ApprovalRequired,
		Data: event.ApprovalRequiredData{
			ID:        req.ID,
			SessionID: req.SessionID,
			Command:   req.Command,
			Patterns:  req.Patterns,
		},
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case resp := <-respChan:
		switch resp.Action {
		case "once":
			return nil
		case "always":
			b.approve(req.SessionID, req.Patterns)
			return nil
		default:
			return &RejectedError{
				SessionID: req.SessionID,
				Command:   req.Command,
				Message:   "command rejected by user",
			}
		}
	}
}

// Respond answers a pending request. Unknown request IDs are ignored
// apart from the resolved event.
func (b *Broker) Respond(requestID, action string) {
	b.mu.RLock()
	ch, ok := b.pending[requestID]
	b.mu.RUnlock()
	if ok {
		ch <- Response{RequestID: requestID, Action: action}
	}

	event.Publish(event.Event{
		Type: event.ApprovalResolved,
		Data: event.ApprovalResolvedData{
			ID:      requestID,
			Granted: action != "reject",
		},
	})
}

// SessionPatterns returns the patterns approved for a session, in
// approval order. The slice is non-nil for known sessions, so it plugs
// directly into the policy engine's default-deny mode.
func (b *Broker) SessionPatterns(sessionID string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string{}, b.order[sessionID]...)
}

// ApprovePattern records a single approved pattern for a session.
func (b *Broker) ApprovePattern(sessionID, pattern string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.approveLocked(sessionID, []string{pattern})
}

// ClearSession drops every approval for a session.
func (b *Broker) ClearSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, sessionID)
	delete(b.order, sessionID)
}

func (b *Broker) approved(sessionID string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	session := b.sessions[sessionID]
	for _, p := range patterns {
		if !session[p] {
			return false
		}
	}
	return true
}

func (b *Broker) approve(sessionID string, patterns []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.approveLocked(sessionID, patterns)
}

func (b *Broker) approveLocked(sessionID string, patterns []string) {
	if b.sessions[sessionID] == nil {
		b.sessions[sessionID] = make(map[string]bool)
	}
	for _, p := range patterns {
		if !b.sessions[sessionID][p] {
			b.sessions[sessionID][p] = true
			b.order[sessionID] = append(b.order[sessionID], p)
		}
	}
}
