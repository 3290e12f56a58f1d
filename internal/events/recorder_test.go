package events

import "testing"

func TestRecorderOfKindPreservesOrder(t *testing.T) {
	r := NewRecorder()
	r.Emit(IterationStart("p1", 1))
	r.Emit(Output("p1", 1, "hello", false))
	r.Emit(Output("p1", 1, "world", false))
	r.Emit(Completed("p1", 1))

	outputs := r.OfKind(KindOutput)
	if len(outputs) != 2 {
		t.Fatalf("expected 2 output events, got %d", len(outputs))
	}
	if outputs[0].Content != "hello" || outputs[1].Content != "world" {
		t.Errorf("expected order preserved, got %+v", outputs)
	}

	if len(r.Events()) != 4 {
		t.Fatalf("expected 4 total events, got %d", len(r.Events()))
	}
}

func TestRecorderEventsIsASnapshot(t *testing.T) {
	r := NewRecorder()
	r.Emit(Stopped("p1"))
	snapshot := r.Events()
	r.Emit(Stopped("p1"))
	if len(snapshot) != 1 {
		t.Fatalf("expected snapshot to be unaffected by later emits, got %d entries", len(snapshot))
	}
}
