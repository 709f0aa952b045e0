package settings

import (
	"errors"
	"testing"
)

func TestObservers(t *testing.T) {
	var o observers[int]
	var calls []string
	a, b := 1, 2

	if err := o.notify(&a, &b); err != nil {
		t.Fatalf("notify without observers: %v", err)
	}

	removeFirst := o.add(func(before, after *int) error {
		if *before != 1 || *after != 2 {
			t.Fatalf("args: got (%d, %d)", *before, *after)
		}
		calls = append(calls, "first")
		return nil
	})
	o.add(func(_, _ *int) error { calls = append(calls, "second"); return nil })

	if err := o.notify(&a, &b); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("calls: %v", calls)
	}

	removeFirst()
	removeFirst()
	if len(o.list) != 1 {
		t.Fatalf("len after remove: got %d, want 1", len(o.list))
	}

	calls = nil
	if err := o.notify(&a, &b); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(calls) != 1 || calls[0] != "second" {
		t.Fatalf("calls after remove: %v", calls)
	}
}

func TestObservers_StopAtFirstError(t *testing.T) {
	var o observers[int]
	boom := errors.New("boom")
	later := false
	o.add(func(_, _ *int) error { return boom })
	o.add(func(_, _ *int) error { later = true; return nil })

	if err := o.notify(nil, nil); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if later {
		t.Fatalf("observer after the failing one ran")
	}
}

func TestObservers_RemoveDuringNotify(t *testing.T) {
	var o observers[int]
	var remove func()
	secondCalled := false
	remove = o.add(func(_, _ *int) error { remove(); return nil })
	o.add(func(_, _ *int) error { secondCalled = true; return nil })

	if err := o.notify(nil, nil); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if !secondCalled {
		t.Fatalf("removing an observer mid-notify skipped the next one")
	}
	if len(o.list) != 1 {
		t.Fatalf("len: got %d, want 1", len(o.list))
	}
}
