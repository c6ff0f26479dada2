package interceptlogic

import "testing"

func TestEventString(t *testing.T) {
	hit := Event{Kind: EventIntercept, Time: 74.3, InterceptorID: "interceptor_2", TargetID: "target_8"}
	if got := hit.String(); got != "[  74.3s] INTERCEPT: interceptor_2 caught target_8" {
		t.Fatalf("String() = %q", got)
	}
	breach := Event{Kind: EventBreach, Time: 400, TargetID: "target_9"}
	if got := breach.String(); got != "[ 400.0s] BREACH: target_9 reached protected zone" {
		t.Fatalf("String() = %q", got)
	}
	if p := breach.Participants(); len(p) != 1 || p[0] != "target_9" {
		t.Fatalf("participants = %v", p)
	}
	if p := hit.Participants(); len(p) != 2 || p[0] != "interceptor_2" {
		t.Fatalf("participants = %v", p)
	}
}

func TestCountEvents(t *testing.T) {
	events := []Event{{Kind: EventBreach}, {Kind: EventIntercept}, {Kind: EventBreach}}
	if CountEvents(events, EventBreach) != 2 || CountEvents(events, EventCollision) != 0 {
		t.Fatalf("counts wrong")
	}
}

func TestInactiveAgentDoesNotMove(t *testing.T) {
	a := &Agent{ID: "target_1", Position: Vector{1, 1}, Velocity: Vector{10, 0}}
	a.Move(1)
	if a.Position != (Vector{1, 1}) {
		t.Fatalf("inactive agent moved to %v", a.Position)
	}
	a.Active = true
	a.Move(1)
	if a.Position != (Vector{11, 1}) {
		t.Fatalf("position = %v", a.Position)
	}
}
