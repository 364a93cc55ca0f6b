package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-engine/math"
)

// CubeShadowMap is the point-light counterpart of ShadowMap: a single
// depth cubemap rendered in six passes (one per face). The main lit pass
// samples only the 2D ShadowMap; this cubemap is filled but not read by
// the lit shader, so point lights do not darken shadowed fragments.
type CubeShadowMap struct {
	FBO      uint32
	DepthTex uint32
	Size     int32
}

// NewCubeShadowMap creates a depth-only cubemap FBO of size×size per face.
func NewCubeShadowMap(size int) (*CubeShadowMap, error) {
	cm := &CubeShadowMap{Size: int32(size)}

	gl.GenTextures(1, &cm.DepthTex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.DepthTex)
	for face := 0; face < 6; face++ {
		gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face), 0, gl.DEPTH_COMPONENT32F,
			int32(size), int32(size), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &cm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, cm.FBO)
	// Bind face 0 up front just to let framebuffer completeness validate;
	// BeginFace rebinds the correct face before each of the six passes.
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_CUBE_MAP_POSITIVE_X, cm.DepthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteTextures(1, &cm.DepthTex)
		gl.DeleteFramebuffers(1, &cm.FBO)
		return nil, fmt.Errorf("cube shadow FBO incomplete: status=0x%X", status)
	}

	return cm, nil
}

// BeginFace binds face (0..5, in GL_TEXTURE_CUBE_MAP_POSITIVE_X order: +X,
// -X, +Y, -Y, +Z, -Z) as the FBO's depth attachment and sets the viewport
// to the map's resolution. Call once per face before rendering depth-only
// geometry for that face, then EndFace once all six are done.
func (cm *CubeShadowMap) BeginFace(face int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, cm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face), cm.DepthTex, 0)
	gl.Viewport(0, 0, cm.Size, cm.Size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// EndFace unbinds the FBO after the sixth face finishes.
func (cm *CubeShadowMap) EndFace() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Destroy frees GPU resources.
func (cm *CubeShadowMap) Destroy() {
	if cm.FBO != 0 {
		gl.DeleteFramebuffers(1, &cm.FBO)
		cm.FBO = 0
	}
	if cm.DepthTex != 0 {
		gl.DeleteTextures(1, &cm.DepthTex)
		cm.DepthTex = 0
	}
}

// cubeFaceDirections/cubeFaceUps give the look and up vectors OpenGL
// expects for each of the six cube faces, in GL_TEXTURE_CUBE_MAP_POSITIVE_X
// order.
var cubeFaceDirections = [6]math.Vec3{
	{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0},
	{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: -1},
}

var cubeFaceUps = [6]math.Vec3{
	{X: 0, Y: -1, Z: 0}, {X: 0, Y: -1, Z: 0},
	{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: -1},
	{X: 0, Y: -1, Z: 0}, {X: 0, Y: -1, Z: 0},
}

// CubeFaceViewProj returns the view-projection matrix for rendering depth
// into cube face i from a point light at lightPos, using a 90-degree FOV
// (exactly covers one cube face) and the given near/far planes.
func CubeFaceViewProj(lightPos math.Vec3, near, far float32, i int) math.Mat4 {
	view := math.Mat4LookAt(lightPos, lightPos.Add(cubeFaceDirections[i]), cubeFaceUps[i])
	proj := math.Mat4Perspective(float32(1.5707963), 1.0, near, far) // pi/2 radians = 90deg
	return view.Mul(proj)
}
