package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-engine/math"
	"render-engine/scene"
)

// ── Particle shaders ─────────────────────────────────────────────────────────

// Instanced billboard vertex shader. The base quad (4 verts, shared across
// every particle) is expanded per-instance using camera right/up and each
// instance's position/size/rotation — no CPU-side quad expansion.
const particleVertSrc = `
#version 410 core
layout(location = 0) in vec2 inCorner; // unit quad corner, (-0.5..0.5)

layout(location = 1) in vec3  iPos;
layout(location = 2) in vec4  iColor;
layout(location = 3) in float iSize;
layout(location = 4) in float iRotation;

uniform mat4 vp;
uniform vec3 camRight;
uniform vec3 camUp;

out vec2 fragUV;
out vec4 fragColor;

void main() {
    float c = cos(iRotation);
    float s = sin(iRotation);
    vec2 rotated = vec2(
        inCorner.x * c - inCorner.y * s,
        inCorner.x * s + inCorner.y * c
    );

    vec3 worldPos = iPos
        + camRight * (rotated.x * iSize)
        + camUp    * (rotated.y * iSize);

    gl_Position = vp * vec4(worldPos, 1.0);
    fragUV      = inCorner + vec2(0.5);
    fragColor   = iColor;
}
` + "\x00"

// Procedural soft-circle fragment shader (no texture required).
const particleFragSrc = `
#version 410 core
in vec2 fragUV;
in vec4 fragColor;

out vec4 outColor;

uniform sampler2D particleTex;
uniform bool      hasParticleTex;

void main() {
    vec4 col = fragColor;
    if (hasParticleTex) {
        col *= texture(particleTex, fragUV);
    } else {
        float d = length(fragUV - vec2(0.5)) * 2.0;
        col.a  *= 1.0 - smoothstep(0.0, 1.0, d);
    }
    outColor = col;
}
` + "\x00"

// particleInstance mirrors the per-instance vertex attributes laid out in
// the shader above: pos(3) + color(4) + size(1) + rotation(1) = 9 floats.
type particleInstance struct {
	pos      [3]float32
	color    [4]float32
	size     float32
	rotation float32
}

// unitQuadCorners is the shared base geometry every instance is stretched
// from; a triangle-strip-free two-triangle layout so DrawArraysInstanced
// can be used directly.
var unitQuadCorners = []float32{
	-0.5, 0.5,
	0.5, 0.5,
	0.5, -0.5,
	-0.5, 0.5,
	0.5, -0.5,
	-0.5, -0.5,
}

// ── ParticleRenderer ─────────────────────────────────────────────────────────

// ParticleRenderer owns the GPU resources for instanced billboard particle
// rendering. Created lazily by Renderer.DrawParticles on first use.
type ParticleRenderer struct {
	prog uint32
	vao  uint32

	quadVBO     uint32
	instanceVBO uint32
	instanceCap int // current instance VBO capacity, in instances

	vpLoc             int32
	camRightLoc       int32
	camUpLoc          int32
	hasParticleTexLoc int32
	particleTexLoc    int32
}

// newParticleRenderer compiles the particle shader and sets up the static
// quad plus the per-instance dynamic buffer with attribute divisors.
func newParticleRenderer() (*ParticleRenderer, error) {
	prog, err := newProgram(particleVertSrc, particleFragSrc)
	if err != nil {
		return nil, fmt.Errorf("particle shader: %w", err)
	}

	pr := &ParticleRenderer{
		prog:              prog,
		vpLoc:             gl.GetUniformLocation(prog, gl.Str("vp\x00")),
		camRightLoc:       gl.GetUniformLocation(prog, gl.Str("camRight\x00")),
		camUpLoc:          gl.GetUniformLocation(prog, gl.Str("camUp\x00")),
		hasParticleTexLoc: gl.GetUniformLocation(prog, gl.Str("hasParticleTex\x00")),
		particleTexLoc:    gl.GetUniformLocation(prog, gl.Str("particleTex\x00")),
	}

	gl.GenVertexArrays(1, &pr.vao)
	gl.BindVertexArray(pr.vao)

	gl.GenBuffers(1, &pr.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, pr.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(unitQuadCorners)*4, gl.Ptr(unitQuadCorners), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 8, gl.PtrOffset(0))

	gl.GenBuffers(1, &pr.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, pr.instanceVBO)
	const stride int32 = 9 * 4
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(0)) // pos
	gl.VertexAttribDivisor(1, 1)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, gl.PtrOffset(12)) // color
	gl.VertexAttribDivisor(2, 1)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, gl.PtrOffset(28)) // size
	gl.VertexAttribDivisor(3, 1)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribPointer(4, 1, gl.FLOAT, false, stride, gl.PtrOffset(32)) // rotation
	gl.VertexAttribDivisor(4, 1)

	gl.BindVertexArray(0)

	gl.UseProgram(prog)
	gl.Uniform1i(pr.particleTexLoc, 0)
	gl.Uniform1i(pr.hasParticleTexLoc, 0)

	return pr, nil
}

// draw renders all live particles in the emitter as instanced camera-facing
// billboards.
//
// Camera right/up are extracted from the view matrix ([col][row] layout):
//
//	right = row 0 of view = (view[0][0], view[1][0], view[2][0])
//	up    = row 1 of view = (view[0][1], view[1][1], view[2][1])
func (pr *ParticleRenderer) draw(emitter *scene.ParticleEmitter, view, proj math.Mat4) {
	n := len(emitter.Particles)
	if n == 0 {
		return
	}

	instances := make([]particleInstance, n)
	for i := range emitter.Particles {
		p := &emitter.Particles[i]
		instances[i] = particleInstance{
			pos:      [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
			color:    [4]float32{p.Color.R, p.Color.G, p.Color.B, p.Color.A},
			size:     p.Size,
			rotation: p.Rotation,
		}
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, pr.instanceVBO)
	byteSize := len(instances) * int(unsafe.Sizeof(particleInstance{}))
	if n > pr.instanceCap {
		gl.BufferData(gl.ARRAY_BUFFER, byteSize, gl.Ptr(instances), gl.DYNAMIC_DRAW)
		pr.instanceCap = n
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, byteSize, gl.Ptr(instances))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	camRight := math.Vec3{X: view[0][0], Y: view[1][0], Z: view[2][0]}
	camUp := math.Vec3{X: view[0][1], Y: view[1][1], Z: view[2][1]}

	gl.Enable(gl.BLEND)
	switch emitter.BlendMode {
	case scene.BlendAdditive:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	default:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	// Depth: read (test against scene) but do NOT write (particles don't occlude)
	gl.DepthMask(false)

	vp := view.Mul(proj)
	gl.UseProgram(pr.prog)
	gl.UniformMatrix4fv(pr.vpLoc, 1, false, (*float32)(unsafe.Pointer(&vp[0][0])))
	gl.Uniform3f(pr.camRightLoc, camRight.X, camRight.Y, camRight.Z)
	gl.Uniform3f(pr.camUpLoc, camUp.X, camUp.Y, camUp.Z)
	gl.Uniform1i(pr.hasParticleTexLoc, 0) // procedural soft-circle

	gl.BindVertexArray(pr.vao)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, 6, int32(n))
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (pr *ParticleRenderer) destroy() {
	gl.DeleteVertexArrays(1, &pr.vao)
	gl.DeleteBuffers(1, &pr.quadVBO)
	gl.DeleteBuffers(1, &pr.instanceVBO)
	gl.DeleteProgram(pr.prog)
}
