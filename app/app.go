// Package app owns the top-level init -> run -> shutdown lifecycle: the
// window, the settings store, the worker pool, the logging sink, and the
// render pipeline all live here so cmd/engine-demo only has to construct
// an Application and call Run.
package app

import (
	"fmt"
	"time"

	"render-engine/core"
	"render-engine/internal/logx"
	"render-engine/internal/opengl"
	"render-engine/internal/worker"
	"render-engine/render"
	"render-engine/scene"
	"render-engine/settings"
	"render-engine/ui"
)

// Config controls how Application.Init sets up the engine.
type Config struct {
	Window         core.WindowConfig
	SettingsPath   string // empty skips file-backed persistence
	EnableShadows  bool
	EnablePostFX   bool
	EnableSkybox   bool
	EnableSSAO     bool // requires EnablePostFX
	WorkerPoolSize int  // 0 defaults to runtime.NumCPU() via internal/worker
}

// DefaultConfig returns sane defaults for a windowed session with shadows,
// a gradient skybox, SSAO, and HDR post-processing all enabled.
func DefaultConfig() Config {
	return Config{
		Window:        core.DefaultWindowConfig(),
		EnableShadows: true,
		EnablePostFX:  true,
		EnableSkybox:  true,
		EnableSSAO:    true,
	}
}

// Application wires every subsystem together and drives the frame loop.
type Application struct {
	cfg Config

	Window   *core.Window
	Input    *core.InputManager
	Settings *settings.Store
	Workers  *worker.Pool
	GL       *opengl.Renderer
	Scene    *render.SceneRenderer
	Pipeline *render.Pipeline
	UI       *ui.Manager

	running bool
}

// New constructs an unstarted Application. Call Init before Run.
func New(cfg Config) *Application {
	return &Application{cfg: cfg}
}

// Init creates the window, GL context, settings store, worker pool, and
// render pipeline, in that order. The caller still owns populating the
// scene (app has no opinion on game content).
func (a *Application) Init() error {
	win, err := core.NewWindow(a.cfg.Window)
	if err != nil {
		return fmt.Errorf("app: create window: %w", err)
	}
	a.Window = win
	a.Input = core.NewInputManager(win)

	gl, err := opengl.NewRenderer()
	if err != nil {
		return fmt.Errorf("app: create renderer: %w", err)
	}
	a.GL = gl
	gl.SetViewport(a.cfg.Window.Width, a.cfg.Window.Height)

	a.Settings = settings.New()
	if a.cfg.SettingsPath != "" {
		if err := a.Settings.Load(a.cfg.SettingsPath); err != nil {
			logx.L().Warn().Err(err).Str("path", a.cfg.SettingsPath).Msg("app: settings load failed, using defaults")
		}
	}

	poolSize := a.Settings.GetInt("performance.worker_threads", a.cfg.WorkerPoolSize)
	a.Workers = worker.New(poolSize)

	a.Scene = render.NewSceneRenderer(gl)
	if a.cfg.EnableShadows {
		size := a.Settings.GetInt("graphics.shadow_map_size", 2048)
		if err := a.Scene.SetShadowMapSize(size); err != nil {
			logx.L().Warn().Err(err).Msg("app: shadow map init failed")
		}
	}
	if a.cfg.EnablePostFX {
		if err := gl.EnablePostProcess(a.cfg.Window.Width, a.cfg.Window.Height); err != nil {
			logx.L().Warn().Err(err).Msg("app: post-process init failed")
		}
		if a.cfg.EnableSSAO {
			if err := gl.EnableSSAO(); err != nil {
				logx.L().Warn().Err(err).Msg("app: ssao init failed")
			}
		}
	}
	if a.cfg.EnableSkybox {
		if err := gl.EnableSkybox(); err != nil {
			logx.L().Warn().Err(err).Msg("app: skybox init failed")
		}
	}
	a.Scene.ApplySettings(a.Settings)
	a.wireLiveSettings()

	a.UI = ui.NewManager(float32(a.cfg.Window.Width), float32(a.cfg.Window.Height))
	a.Pipeline = render.NewPipeline(gl, win, a.Scene, a.UI)

	win.SetResizeCallback(func(width, height int) {
		gl.SetViewport(width, height)
		gl.ResizePostProcess(width, height)
		a.UI.Resize(float32(width), float32(height))
	})

	return nil
}

// Run drives the frame loop until the window is closed or update
// returns false. update receives the elapsed time since the previous
// frame and should mutate sc/cam as needed; Run handles input polling,
// UI compilation/dispatch, and the render pipeline itself.
func (a *Application) Run(sc *scene.Scene, cam *scene.Camera, emitters []*scene.ParticleEmitter, update func(dt float32) bool) {
	a.running = true
	targetFPS := a.Settings.GetInt("graphics.target_fps", 0)

	last := time.Now()
	for a.running && !a.Window.ShouldClose() {
		frameStart := time.Now()
		dt := float32(frameStart.Sub(last).Seconds())
		last = frameStart

		a.Window.PollEvents()
		a.Input.Update()
		a.UI.Compile()
		a.UI.HandleInput(a.Input)

		if update != nil && !update(dt) {
			break
		}

		a.Pipeline.Frame(sc, cam, emitters)

		if targetFPS > 0 {
			budget := time.Second / time.Duration(targetFPS)
			if elapsed := time.Since(frameStart); elapsed < budget {
				time.Sleep(budget - elapsed) // best-effort pacing, never a hard guarantee
			}
		}
	}
}

// Stop requests the frame loop exit at the start of its next iteration.
func (a *Application) Stop() { a.running = false }

// Shutdown releases GPU resources, stops the worker pool, and destroys
// the window. Safe to call even if Init partially failed.
func (a *Application) Shutdown() {
	if a.Workers != nil {
		a.Workers.Close()
	}
	if a.GL != nil {
		a.GL.Destroy()
	}
	if a.Window != nil {
		a.Window.Destroy()
	}
}
