package render

import (
	"render-engine/core"
	"render-engine/internal/opengl"
	"render-engine/math"
	"render-engine/scene"
	"render-engine/ui"
)

// Pipeline orchestrates one frame in a fixed stage order: scene geometry,
// particles, the UI overlay, then a buffer swap. Each stage is independent
// so callers can drop one (e.g. no UI manager) without touching the rest.
type Pipeline struct {
	GL      *opengl.Renderer
	Window  *core.Window
	Scene   *SceneRenderer
	UI      *ui.Manager
}

// NewPipeline wires a scene renderer, GL backend, and window together.
// UI is optional; pass nil to run without an overlay.
func NewPipeline(gl *opengl.Renderer, win *core.Window, sceneRenderer *SceneRenderer, uiMgr *ui.Manager) *Pipeline {
	return &Pipeline{GL: gl, Window: win, Scene: sceneRenderer, UI: uiMgr}
}

// Frame draws one complete frame: sc/cam through the scene renderer, then
// every ParticleEmitter node's particles, then the compiled UI tree, then
// swaps buffers. sky/ambient/lights/shadow state matches opengl.Renderer's
// BeginFrame contract.
func (p *Pipeline) Frame(sc *scene.Scene, cam *scene.Camera, emitters []*scene.ParticleEmitter) {
	view := cam.GetViewMatrix()
	proj := cam.GetProjectionMatrix()

	var lightVP math.Mat4
	hasShadows := p.GL.HasShadowMap()
	for _, l := range sc.Lights {
		if l.Type != scene.LightTypePoint {
			lightVP = directionalLightVP(l)
			break
		}
	}

	p.GL.BeginFrame(sc.SkyColor, sc.Lights, sc.Ambient, cam.Position, lightVP, hasShadows, proj)
	p.Scene.Draw(sc, cam)

	for _, e := range emitters {
		p.GL.DrawParticles(e, view, proj)
	}

	if p.GL.HasPostProcess() {
		p.GL.BlitPostProcess()
	}

	if p.UI != nil {
		p.drawUI()
	}

	p.Window.SwapBuffers()
}

// drawUI walks the compiled UI tree in layer order and draws each
// widget's background rect, widget-specific chrome, and label text.
func (p *Pipeline) drawUI() {
	vw, vh := p.UI.ViewportW, p.UI.ViewportH

	p.GL.BeginUIPass()
	for _, c := range p.UI.RenderList() {
		if !c.Visible || c.Opacity <= 0 {
			continue
		}
		rect := c.Compiled
		if c.Background.A > 0 {
			p.GL.DrawUIRect(rect.X, rect.Y, rect.Width, rect.Height, c.Background, vw, vh)
		}
		p.drawWidget(c, vw, vh)
	}
	p.GL.EndUIPass()
}

func (p *Pipeline) drawWidget(c *ui.UIComponent, vw, vh float32) {
	switch w := c.Self().(type) {
	case *ui.Panel:
		if w.BorderWidth > 0 {
			p.drawBorder(c.Compiled, w.BorderColor, w.BorderWidth, vw, vh)
		}
	case *ui.Label:
		p.GL.DrawText(w.Text, c.Compiled.X, c.Compiled.Y+c.Compiled.FontSize, 1, w.Color, vw, vh)
	case *ui.Button:
		p.GL.DrawUIRect(c.Compiled.X, c.Compiled.Y, c.Compiled.Width, c.Compiled.Height, w.CurrentColor(), vw, vh)
		p.GL.DrawText(w.Label, c.Compiled.X+4, c.Compiled.Y+c.Compiled.FontSize, 1, w.TextColor, vw, vh)
	case *ui.Checkbox:
		boxSize := c.Compiled.Height
		p.GL.DrawUIRect(c.Compiled.X, c.Compiled.Y, boxSize, boxSize, w.BoxColor, vw, vh)
		if w.Checked {
			inset := boxSize * 0.25
			p.GL.DrawUIRect(c.Compiled.X+inset, c.Compiled.Y+inset, boxSize-2*inset, boxSize-2*inset, w.CheckColor, vw, vh)
		}
		p.GL.DrawText(w.Label, c.Compiled.X+boxSize+6, c.Compiled.Y+c.Compiled.FontSize, 1, core.ColorWhite, vw, vh)
	case *ui.Slider:
		p.GL.DrawUIRect(c.Compiled.X, c.Compiled.Y, c.Compiled.Width, c.Compiled.Height, w.TrackColor, vw, vh)
		fillW := c.Compiled.Width * w.Fraction()
		p.GL.DrawUIRect(c.Compiled.X, c.Compiled.Y, fillW, c.Compiled.Height, w.FillColor, vw, vh)
		handleW := float32(8)
		p.GL.DrawUIRect(c.Compiled.X+fillW-handleW/2, c.Compiled.Y, handleW, c.Compiled.Height, w.HandleColor, vw, vh)
	case *ui.Dropdown:
		p.GL.DrawUIRect(c.Compiled.X, c.Compiled.Y, c.Compiled.Width, c.Compiled.Height, w.HeaderColor, vw, vh)
		p.GL.DrawText(w.SelectedValue(), c.Compiled.X+4, c.Compiled.Y+c.Compiled.FontSize, 1, w.TextColor, vw, vh)
		if w.Open {
			for i := range w.Options {
				row := w.OptionRow(i)
				p.GL.DrawUIRect(row.Compiled.X, row.Compiled.Y, row.Compiled.Width, row.Compiled.Height, w.OptionColor, vw, vh)
				p.GL.DrawText(w.Options[i], row.Compiled.X+4, row.Compiled.Y+row.Compiled.FontSize, 1, w.TextColor, vw, vh)
			}
		}
	}
}

// drawBorder approximates a rectangular border as four thin rects.
func (p *Pipeline) drawBorder(rect ui.Compiled, color core.Color, width float32, vw, vh float32) {
	p.GL.DrawUIRect(rect.X, rect.Y, rect.Width, width, color, vw, vh)
	p.GL.DrawUIRect(rect.X, rect.Y+rect.Height-width, rect.Width, width, color, vw, vh)
	p.GL.DrawUIRect(rect.X, rect.Y, width, rect.Height, color, vw, vh)
	p.GL.DrawUIRect(rect.X+rect.Width-width, rect.Y, width, rect.Height, color, vw, vh)
}
