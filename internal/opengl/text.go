package opengl

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"render-engine/core"
)

// defaultFontPath is where newTextRenderer looks for a user-supplied TTF
// before falling back to the bundled fixed-width basicfont face.
const defaultFontPath = "assets/fonts/default.ttf"

const atlasSize = 512

// glyphInfo is one atlas cell: its pixel rect plus layout metrics, in the
// same spirit as gazed-vu's load.Glyph.
type glyphInfo struct {
	x, y, w, h int
	xoff, yoff int
	advance    int
}

// TextRenderer rasterizes a font atlas once and draws arbitrary strings as
// textured quads, one draw call per glyph. Screen-space 2D text only — 3D
// world-space labels project to screen coordinates before calling draw.
type TextRenderer struct {
	atlasTex           uint32
	glyphs             map[rune]glyphInfo
	lineHeight, ascent int

	prog              uint32
	vao, vbo          uint32
	projLoc, colorLoc int32
	texLoc            int32
}

const textVertSrc = `
#version 410 core
layout(location = 0) in vec4 inPosUV; // xy = screen pos, zw = atlas uv

uniform mat4 proj;

out vec2 fragUV;

void main() {
    fragUV = inPosUV.zw;
    gl_Position = proj * vec4(inPosUV.xy, 0.0, 1.0);
}
` + "\x00"

const textFragSrc = `
#version 410 core
in vec2 fragUV;
out vec4 outColor;

uniform sampler2D atlas;
uniform vec4 color;

void main() {
    float a = texture(atlas, fragUV).r;
    outColor = vec4(color.rgb, color.a * a);
}
` + "\x00"

// newTextRenderer builds the glyph atlas and GPU resources. It tries
// defaultFontPath first; a missing or unparsable file falls back to
// basicfont.Face7x13 rather than failing DrawText outright.
func newTextRenderer() (*TextRenderer, error) {
	prog, err := newProgram(textVertSrc, textFragSrc)
	if err != nil {
		return nil, fmt.Errorf("text shader: %w", err)
	}

	tr := &TextRenderer{
		prog:     prog,
		projLoc:  gl.GetUniformLocation(prog, gl.Str("proj\x00")),
		colorLoc: gl.GetUniformLocation(prog, gl.Str("color\x00")),
		texLoc:   gl.GetUniformLocation(prog, gl.Str("atlas\x00")),
	}

	img, glyphs, lineHeight, ascent, err := buildAtlas(defaultFontPath)
	if err != nil {
		return nil, fmt.Errorf("font atlas: %w", err)
	}
	tr.glyphs = glyphs
	tr.lineHeight = lineHeight
	tr.ascent = ascent

	gl.GenTextures(1, &tr.atlasTex)
	gl.BindTexture(gl.TEXTURE_2D, tr.atlasTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(atlasSize), int32(atlasSize), 0, gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenVertexArrays(1, &tr.vao)
	gl.GenBuffers(1, &tr.vbo)
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 16, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	return tr, nil
}

// buildAtlas rasterizes every printable ASCII rune into a single-channel
// image.Alpha atlas, following the gazed-vu load.Ttf pen-advance/line-wrap
// layout: pack left to right, wrap to a new line when a glyph would
// overflow atlasSize.
func buildAtlas(ttfPath string) (*image.Alpha, map[rune]glyphInfo, int, int, error) {
	runes := []rune(" ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,:;!?'\"()[]{}/\\-_+=*<>")

	data, err := os.ReadFile(ttfPath)
	if err != nil {
		return buildBasicFontAtlas(runes)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return buildBasicFontAtlas(runes)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return buildBasicFontAtlas(runes)
	}

	img := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]glyphInfo, len(runes))
	lineHeight := face.Metrics().Height.Round()
	ascent := face.Metrics().Ascent.Round()

	penX, penY := 0, 0
	for _, r := range runes {
		bounds, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		w := bounds.Max.X.Ceil() - bounds.Min.X.Floor() + 2
		h := bounds.Max.Y.Ceil() - bounds.Min.Y.Floor() + 2
		if w <= 0 || h <= 0 {
			w, h = 1, 1
		}
		if penX+w >= atlasSize {
			penX = 0
			penY += lineHeight
		}
		if penY+h >= atlasSize {
			break // atlas full; draw substitutes the space glyph for the remaining runes
		}

		dst := image.NewAlpha(image.Rect(0, 0, w, h))
		d := &font.Drawer{
			Dot:  fixed.P(-bounds.Min.X.Floor()+1, -bounds.Min.Y.Floor()+1),
			Dst:  dst,
			Src:  image.Opaque,
			Face: face,
		}
		dr, mask, maskp, _, _ := d.Face.Glyph(d.Dot, r)
		draw.DrawMask(d.Dst, dr, d.Src, image.Point{}, mask, maskp, draw.Over)
		draw.Draw(img, image.Rect(penX, penY, penX+w, penY+h), dst, image.Point{}, draw.Src)

		glyphs[r] = glyphInfo{
			x: penX, y: penY, w: w, h: h,
			xoff: bounds.Min.X.Floor(), yoff: bounds.Min.Y.Floor(),
			advance: adv.Round(),
		}
		penX += w
	}

	return img, glyphs, lineHeight, ascent, nil
}

// buildBasicFontAtlas uses golang.org/x/image/font/basicfont's bundled
// fixed-width face — no on-disk font required, used when no TTF is
// configured or it fails to parse.
func buildBasicFontAtlas(runes []rune) (*image.Alpha, map[rune]glyphInfo, int, int, error) {
	face := basicfont.Face7x13
	cellW, cellH := 7, 13
	perRow := atlasSize / cellW

	img := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]glyphInfo, len(runes))

	for i, r := range runes {
		col, row := i%perRow, i/perRow
		px, py := col*cellW, row*cellH
		if py+cellH >= atlasSize {
			break
		}
		dst := image.NewAlpha(image.Rect(0, 0, cellW, cellH))
		d := &font.Drawer{
			Dot:  fixed.P(0, cellH-3),
			Dst:  dst,
			Src:  image.Opaque,
			Face: face,
		}
		d.DrawString(string(r))
		draw.Draw(img, image.Rect(px, py, px+cellW, py+cellH), dst, image.Point{}, draw.Src)

		glyphs[r] = glyphInfo{x: px, y: py, w: cellW, h: cellH, xoff: 0, yoff: 0, advance: cellW}
	}

	return img, glyphs, cellH, cellH - 3, nil
}

// draw renders text at top-left (x, y) in screen pixels, scaled by scale,
// tinted by color, against an orthographic projection sized screenW x
// screenH. One draw call per glyph quad.
func (tr *TextRenderer) draw(text string, x, y, scale float32, color core.Color, screenW, screenH float32) {
	proj := orthoPixels(screenW, screenH)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(tr.prog)
	gl.UniformMatrix4fv(tr.projLoc, 1, false, &proj[0])
	gl.Uniform4f(tr.colorLoc, color.R, color.G, color.B, color.A)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.atlasTex)
	gl.Uniform1i(tr.texLoc, 0)
	gl.BindVertexArray(tr.vao)

	penX := x
	for _, r := range text {
		if r == '\n' {
			penX = x
			y += float32(tr.lineHeight) * scale
			continue
		}
		g, ok := tr.glyphs[r]
		if !ok {
			g, ok = tr.glyphs[' ']
			if !ok {
				continue
			}
		}

		gw := float32(g.w) * scale
		gh := float32(g.h) * scale
		gx := penX + float32(g.xoff)*scale
		gy := y + float32(g.yoff)*scale

		u0 := float32(g.x) / atlasSize
		v0 := float32(g.y) / atlasSize
		u1 := float32(g.x+g.w) / atlasSize
		v1 := float32(g.y+g.h) / atlasSize

		verts := [6][4]float32{
			{gx, gy, u0, v0},
			{gx, gy + gh, u0, v1},
			{gx + gw, gy + gh, u1, v1},
			{gx, gy, u0, v0},
			{gx + gw, gy + gh, u1, v1},
			{gx + gw, gy, u1, v0},
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*16, unsafe.Pointer(&verts[0]))
		gl.DrawArrays(gl.TRIANGLES, 0, 6)

		penX += float32(g.advance) * scale
	}

	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// orthoPixels returns a column-major ortho projection mapping [0,w]x[0,h]
// (Y down, origin top-left) to clip space, matching screen-space UI
// conventions elsewhere in this package.
func orthoPixels(w, h float32) [16]float32 {
	return [16]float32{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

func (tr *TextRenderer) destroy() {
	gl.DeleteTextures(1, &tr.atlasTex)
	gl.DeleteVertexArrays(1, &tr.vao)
	gl.DeleteBuffers(1, &tr.vbo)
	gl.DeleteProgram(tr.prog)
}
