package option

import "testing"

func TestNoneAndSome(t *testing.T) {
	n := None[int]()
	if !n.IsNone() || n.IsSome() {
		t.Fatalf("expected none")
	}
	if got := n.GetOr(7); got != 7 {
		t.Fatalf("GetOr on none: got %d", got)
	}

	s := Some("out.json")
	if !s.IsSome() {
		t.Fatalf("expected some")
	}
	if s.Get() != "out.json" {
		t.Fatalf("Get: got %q", s.Get())
	}
}

func TestGetOnNonePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	None[string]().Get()
}
