package app

import "render-engine/internal/logx"

// wireLiveSettings subscribes to every graphics.* path a running session can
// reasonably change without a restart, routing each change straight into the
// GL renderer or scene renderer. This is what lets a settings.yaml edit, a
// debug-UI control, or a quality-preset switch take effect on the next
// frame instead of only at the next Init.
func (a *Application) wireLiveSettings() {
	a.Settings.Subscribe("graphics.shadow_map_size", func(_, new any) {
		size := coerceInt(new, 2048)
		if err := a.Scene.SetShadowMapSize(size); err != nil {
			logx.L().Warn().Err(err).Int("size", size).Msg("live settings: shadow_map_size")
		}
	})

	a.Settings.Subscribe("graphics.culling_enabled", func(_, new any) {
		a.Scene.CullingEnabled = coerceBool(new, true)
	})

	a.Settings.Subscribe("graphics.wireframe_mode", func(_, new any) {
		a.GL.SetWireframe(coerceBool(new, false))
	})

	a.Settings.Subscribe("graphics.exposure", func(_, new any) {
		a.GL.SetExposure(float32(coerceFloat(new, 1.0)))
	})

	a.Settings.Subscribe("graphics.bloom_enabled", func(_, new any) {
		if !coerceBool(new, false) || !a.GL.HasPostProcess() {
			return
		}
		if err := a.GL.EnableBloom(); err != nil {
			logx.L().Warn().Err(err).Msg("live settings: bloom_enabled")
		}
	})
	a.Settings.Subscribe("graphics.bloom_threshold", func(_, new any) {
		a.GL.SetBloomThreshold(float32(coerceFloat(new, 1.0)))
	})
	a.Settings.Subscribe("graphics.bloom_strength", func(_, new any) {
		a.GL.SetBloomStrength(float32(coerceFloat(new, 0.6)))
	})

	// MSAA sample count is a GLFW window-creation hint (core.WindowConfig.
	// MSAASamples); GL gives no way to change it on a live context, so a
	// change here only takes effect the next time the window is recreated.
	a.Settings.Subscribe("graphics.msaa_samples", func(old, new any) {
		logx.L().Warn().Interface("old", old).Interface("new", new).
			Msg("live settings: msaa_samples requires an app restart to take effect")
	})
}

// coerceInt/coerceBool/coerceFloat adapt a Subscribe callback's `new any`
// to the type the caller actually wants: values set via settings.Store.Set
// keep the Go type the caller passed (bool, int, float32, float64, ...),
// while values loaded from YAML arrive as int/float64/bool/string per
// gopkg.in/yaml.v3's decoding rules. Both paths are covered here, matching
// Store's own GetInt/GetBool/GetFloat fallthrough.
func coerceInt(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case float32:
		return int(n)
	}
	return fallback
}

func coerceBool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func coerceFloat(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	}
	return fallback
}
