package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-engine/core"
)

// uiVertSrc/uiFragSrc draw a single flat-colored quad in screen-pixel
// space, the same orthoPixels convention TextRenderer uses.
const uiVertSrc = `
#version 410 core
layout(location = 0) in vec2 inPos;

uniform mat4 proj;

void main() {
    gl_Position = proj * vec4(inPos, 0.0, 1.0);
}
` + "\x00"

const uiFragSrc = `
#version 410 core
out vec4 outColor;
uniform vec4 color;

void main() {
    outColor = color;
}
` + "\x00"

// UIRenderer draws the flat-colored rectangles that back panels, buttons,
// checkboxes, sliders, and dropdowns. Text labels are drawn separately by
// a TextRenderer.
type UIRenderer struct {
	prog         uint32
	vao, vbo     uint32
	projLoc      int32
	colorLoc     int32
}

func newUIRenderer() (*UIRenderer, error) {
	prog, err := newProgram(uiVertSrc, uiFragSrc)
	if err != nil {
		return nil, fmt.Errorf("ui shader: %w", err)
	}

	ur := &UIRenderer{
		prog:     prog,
		projLoc:  gl.GetUniformLocation(prog, gl.Str("proj\x00")),
		colorLoc: gl.GetUniformLocation(prog, gl.Str("color\x00")),
	}

	gl.GenVertexArrays(1, &ur.vao)
	gl.GenBuffers(1, &ur.vbo)
	gl.BindVertexArray(ur.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, ur.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*2*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 8, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	return ur, nil
}

// BeginUIPass disables depth testing and enables alpha blending; call once
// before a sequence of Rect/DrawText calls, then EndUIPass once done.
func (ur *UIRenderer) BeginUIPass() {
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (ur *UIRenderer) EndUIPass() {
	gl.Enable(gl.DEPTH_TEST)
}

// Rect draws a flat-colored rectangle at pixel coordinates (x, y) top-left,
// size (w, h), tinted by color (including alpha).
func (ur *UIRenderer) Rect(x, y, w, h float32, color core.Color, screenW, screenH float32) {
	if color.A <= 0 {
		return
	}
	proj := orthoPixels(screenW, screenH)

	verts := [6][2]float32{
		{x, y}, {x, y + h}, {x + w, y + h},
		{x, y}, {x + w, y + h}, {x + w, y},
	}

	gl.UseProgram(ur.prog)
	gl.UniformMatrix4fv(ur.projLoc, 1, false, &proj[0])
	gl.Uniform4f(ur.colorLoc, color.R, color.G, color.B, color.A)

	gl.BindVertexArray(ur.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, ur.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*8, unsafe.Pointer(&verts[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (ur *UIRenderer) destroy() {
	gl.DeleteVertexArrays(1, &ur.vao)
	gl.DeleteBuffers(1, &ur.vbo)
	gl.DeleteProgram(ur.prog)
}
