// Command engine-demo is a minimal exercise of the app package: a lit
// sphere spinning in place beside a point light, a settings-backed shadow/bloom config,
// and a small UI overlay with a wireframe toggle and an exposure slider.
package main

import (
	"os"

	"render-engine/app"
	"render-engine/core"
	"render-engine/internal/logx"
	"render-engine/math"
	"render-engine/scene"
	"render-engine/settings"
	"render-engine/ui"
)

func main() {
	cfg := app.DefaultConfig()
	cfg.SettingsPath = "settings.yaml"

	a := app.New(cfg)
	if err := a.Init(); err != nil {
		logx.L().Fatal().Err(err).Msg("engine-demo: init failed")
		os.Exit(1)
	}
	defer a.Shutdown()

	sc := scene.NewScene()
	cam := scene.NewCamera(1.0472, 16.0/9.0, 0.1, 1000) // 60 degrees FOV
	cam.Position = math.Vec3{X: 0, Y: 2, Z: 6}
	cam.LookAt(math.Vec3{}, math.Vec3{X: 0, Y: 1, Z: 0})
	sc.SetCamera(cam)

	sphere := scene.NewNode("sphere")
	sphere.Mesh = scene.CreateSphere(1, 32, 16)
	sc.AddNode(sphere)

	sc.AddLight(&scene.Light{
		Type:      scene.LightTypePoint,
		Position:  math.Vec3{X: 3, Y: 4, Z: 3},
		Color:     core.ColorWhite,
		Intensity: 2,
		Range:     20,
	})

	bounds := scene.AABB{
		Min: math.Vec3{X: -50, Y: -50, Z: -50},
		Max: math.Vec3{X: 50, Y: 50, Z: 50},
	}
	maxDepth := a.Settings.GetInt("graphics.octree_max_depth", settings.DefaultOctreeMaxDepth)
	capacity := a.Settings.GetInt("graphics.octree_capacity", settings.DefaultOctreeCapacity)
	a.Scene.Octree = scene.NewOctree(bounds, maxDepth, capacity)
	a.Scene.Octree.Insert(sphere, scene.ComputeAABB(sphere.Mesh, sphere.GetWorldMatrix()))
	a.Scene.DebugStats = true

	wireframeBox := ui.NewCheckbox("wireframe", "Wireframe", func(checked bool) {
		a.Settings.Set("graphics.wireframe_mode", checked, false)
	})
	wireframeBox.SetWidth(ui.Px(160))
	wireframeBox.SetHeight(ui.Px(24))
	wireframeBox.X, wireframeBox.Y = ui.Px(12), ui.Px(12)
	a.UI.Root.AddChild(wireframeBox.UIComponent)

	exposure := ui.NewSlider("exposure", 0.1, 3.0, 1.0, func(v float32) {
		a.Settings.Set("graphics.exposure", float64(v), false)
	})
	exposure.SetWidth(ui.Px(200))
	exposure.SetHeight(ui.Px(18))
	exposure.X, exposure.Y = ui.Px(12), ui.Px(44)
	a.UI.Root.AddChild(exposure.UIComponent)

	a.Run(sc, cam, nil, func(dt float32) bool {
		sphere.Rotate(math.Vec3{X: 0, Y: 1, Z: 0}, dt)
		return true
	})
}
