package core

import "testing"

func TestMousePressedEdgeDetection(t *testing.T) {
	im := &InputManager{}
	im.mouseButtonsPrev[MouseLeft] = false
	im.mouseButtons[MouseLeft] = true

	if !im.MousePressed(MouseLeft) {
		t.Error("expected MousePressed true on the down transition")
	}
	if im.MouseReleased(MouseLeft) {
		t.Error("expected MouseReleased false while still down")
	}
}

func TestMouseReleasedEdgeDetection(t *testing.T) {
	im := &InputManager{}
	im.mouseButtonsPrev[MouseLeft] = true
	im.mouseButtons[MouseLeft] = false

	if !im.MouseReleased(MouseLeft) {
		t.Error("expected MouseReleased true on the up transition")
	}
	if im.MousePressed(MouseLeft) {
		t.Error("expected MousePressed false while already up")
	}
}

func TestMouseDownHoldSteadyNoEdge(t *testing.T) {
	im := &InputManager{}
	im.mouseButtonsPrev[MouseLeft] = true
	im.mouseButtons[MouseLeft] = true

	if !im.MouseDown(MouseLeft) {
		t.Error("expected MouseDown true while held")
	}
	if im.MousePressed(MouseLeft) {
		t.Error("expected no MousePressed edge on a steady hold")
	}
}

func TestKeyPressedEdgeDetection(t *testing.T) {
	im := &InputManager{}
	im.keysPrev[KeyLeftShift] = false
	im.keys[KeyLeftShift] = true

	if !im.KeyPressed(KeyLeftShift) {
		t.Error("expected KeyPressed true on the down transition")
	}
}
