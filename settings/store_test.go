package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetSetDotPath(t *testing.T) {
	s := New()
	if v, ok := s.Get("graphics.msaa_samples"); !ok || v.(int) != 4 {
		t.Errorf("expected default graphics.msaa_samples=4, got %v (ok=%v)", v, ok)
	}
	if err := s.Set("graphics.msaa_samples", 8, false); err != nil {
		t.Errorf("Set failed: %v", err)
	}
	if v, _ := s.Get("graphics.msaa_samples"); v.(int) != 8 {
		t.Errorf("expected 8 after Set, got %v", v)
	}
}

func TestSubscribeNotifiesOldNew(t *testing.T) {
	s := New()
	var gotOld, gotNew any
	s.Subscribe("graphics.shadow_map_size", func(old, new any) {
		gotOld, gotNew = old, new
	})
	if err := s.Set("graphics.shadow_map_size", 4096, false); err != nil {
		t.Errorf("Set failed: %v", err)
	}
	if gotOld != 2048 || gotNew != 4096 {
		t.Errorf("expected callback(2048, 4096), got callback(%v, %v)", gotOld, gotNew)
	}
}

func TestUnsubscribeStopsCallback(t *testing.T) {
	s := New()
	calls := 0
	id := s.Subscribe("graphics.gamma", func(old, new any) { calls++ })
	s.Set("graphics.gamma", 2.0, false)
	s.Unsubscribe("graphics.gamma", id)
	s.Set("graphics.gamma", 1.8, false)
	if calls != 1 {
		t.Errorf("expected exactly 1 callback invocation, got %d", calls)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	s := New()
	s.SetFile(path)
	if err := s.Set("graphics.wireframe_mode", true, true); err != nil {
		t.Errorf("Set+Save failed: %v", err)
	}

	s2 := New()
	if err := s2.Load(path); err != nil {
		t.Errorf("Load failed: %v", err)
	}
	if v, _ := s2.Get("graphics.wireframe_mode"); v != true {
		t.Errorf("expected wireframe_mode=true after reload, got %v", v)
	}
	// Unrelated default should survive the merge untouched.
	if v, _ := s2.Get("graphics.msaa_samples"); v.(int) != 4 {
		t.Errorf("expected untouched default graphics.msaa_samples=4, got %v", v)
	}
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml: at all"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	s := New()
	if err := s.Load(path); err != nil {
		t.Errorf("Load on malformed file should not return an error, got %v", err)
	}
	if v, _ := s.Get("graphics.msaa_samples"); v.(int) != 4 {
		t.Errorf("expected defaults preserved after malformed load, got %v", v)
	}
}

func TestApplyGraphicsPreset(t *testing.T) {
	dir := t.TempDir()
	s := New()
	s.SetFile(filepath.Join(dir, "settings.yaml"))

	if err := s.ApplyGraphicsPreset("ultra"); err != nil {
		t.Errorf("ApplyGraphicsPreset failed: %v", err)
	}
	if v, _ := s.Get("graphics.shadow_map_size"); v.(int) != 4096 {
		t.Errorf("expected shadow_map_size=4096 after ultra preset, got %v", v)
	}
}
