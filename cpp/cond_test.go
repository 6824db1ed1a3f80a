package cpp

import "testing"

func TestCondStackTopLevelActive(t *testing.T) {
	cs := NewCondStack()
	if !cs.InActiveBlock() {
		t.Errorf("top level should be active with no frames pushed")
	}
}

func TestCondStackSimpleIf(t *testing.T) {
	cs := NewCondStack()
	cs.PushIf(true)
	if !cs.InActiveBlock() {
		t.Errorf("expected active after PushIf(true)")
	}
	if err := cs.Endif(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !cs.InActiveBlock() {
		t.Errorf("expected active after popping back to top level")
	}
}

func TestCondStackElseWithoutIfErrors(t *testing.T) {
	cs := NewCondStack()
	if err := cs.Else(); err == nil {
		t.Errorf("expected error for #else without #if")
	}
}

func TestCondStackEndifWithoutIfErrors(t *testing.T) {
	cs := NewCondStack()
	if err := cs.Endif(); err == nil {
		t.Errorf("expected error for #endif without #if")
	}
}

func TestCondStackAtEOFDetectsUnclosed(t *testing.T) {
	cs := NewCondStack()
	cs.PushIf(true)
	if err := cs.AtEOF(); err == nil {
		t.Errorf("expected error for unclosed #if at EOF")
	}
}

func TestCondStackNestedInactiveStaysInactive(t *testing.T) {
	cs := NewCondStack()
	cs.PushIf(false)
	cs.PushIf(true) // nested #if true, but parent is inactive
	if cs.InActiveBlock() {
		t.Errorf("a block nested inside an inactive block must stay inactive")
	}
}
