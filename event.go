package interceptlogic

import "fmt"

// EventKind tags an entry of the world's event log
type EventKind string

const (
	EventIntercept EventKind = "intercept"
	EventBreach    EventKind = "breach"
	// EventCollision is reserved; nothing emits it yet
	EventCollision EventKind = "collision"
)

// Event is one resolved outcome. InterceptorID is empty for breaches.
type Event struct {
	Kind          EventKind
	Time          float64 // simulated seconds
	Tick          int
	InterceptorID string
	TargetID      string
}

// Participants returns the agent ids involved, interceptor first
func (e Event) Participants() []string {
	if e.InterceptorID == "" {
		return []string{e.TargetID}
	}
	return []string{e.InterceptorID, e.TargetID}
}

func (e Event) String() string {
	switch e.Kind {
	case EventIntercept:
		return fmt.Sprintf("[%6.1fs] INTERCEPT: %s caught %s", e.Time, e.InterceptorID, e.TargetID)
	case EventBreach:
		return fmt.Sprintf("[%6.1fs] BREACH: %s reached protected zone", e.Time, e.TargetID)
	}
	return fmt.Sprintf("[%6.1fs] %s: %v", e.Time, e.Kind, e.Participants())
}

// CountEvents tallies events of kind
func CountEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
