// Package render orchestrates a full frame: scene geometry, shadow passes,
// particles, and the UI overlay, in a fixed stage order.
package render

import (
	"render-engine/internal/logx"
	"render-engine/internal/opengl"
	"render-engine/math"
	"render-engine/scene"
	"render-engine/settings"
)

// SceneRenderer draws one Scene through a Renderer: it extracts the camera
// frustum, culls against the octree (falling back to a linear scan when no
// octree is attached), runs the shadow passes, then the main lit pass.
type SceneRenderer struct {
	GL *opengl.Renderer

	Octree *scene.Octree // nil disables spatial culling; every node is tested directly

	CullingEnabled bool
	DebugStats     bool

	frameCount      uint64
	lastDrawn       int
	lastRejected    int
	lastShadowSize  int
}

// NewSceneRenderer wraps an already-initialised GL renderer.
func NewSceneRenderer(gl *opengl.Renderer) *SceneRenderer {
	return &SceneRenderer{GL: gl, CullingEnabled: true}
}

// Draw renders sc from cam's point of view. Call once per frame, after
// opengl.Renderer.BeginFrame/before BlitPostProcess.
func (sr *SceneRenderer) Draw(sc *scene.Scene, cam *scene.Camera) {
	view := cam.GetViewMatrix()
	proj := cam.GetProjectionMatrix()
	vp := view.Mul(proj)
	frustum := scene.FrustumFromVP(vp)

	if sr.GL.HasSkybox() {
		sr.GL.DrawSkybox(view, proj)
	}

	sr.runShadowPasses(sc)

	visible := sr.visibleNodes(sc, &frustum)
	sr.lastDrawn = len(visible)

	for _, n := range visible {
		if n.Mesh == nil {
			continue
		}
		model := n.GetWorldMatrix()
		mvp := model.Mul(vp)
		sr.GL.DrawMesh(n.Mesh, mvp, model)
	}

	sr.frameCount++
	if sr.DebugStats && sr.frameCount%60 == 0 {
		logx.L().Debug().Int("drawn", sr.lastDrawn).Int("rejected", sr.lastRejected).
			Uint64("frame", sr.frameCount).Msg("scene_renderer stats")
	}
}

// visibleNodes returns every mesh-bearing node whose world AABB survives the
// frustum test. With an Octree attached, only cells the frustum actually
// intersects are descended; without one, every node in the scene is tested.
func (sr *SceneRenderer) visibleNodes(sc *scene.Scene, frustum *scene.Frustum) []*scene.Node {
	var candidates []*scene.Node
	if sr.Octree != nil && sr.CullingEnabled {
		candidates = sr.Octree.QueryFrustum(frustum)
		sr.lastRejected = sr.Octree.Count() - len(candidates)
	} else {
		sc.Root.Traverse(func(n *scene.Node) { candidates = append(candidates, n) })
		sr.lastRejected = 0
	}

	if !sr.CullingEnabled {
		out := candidates[:0:0]
		for _, n := range candidates {
			if n.Visible && n.Mesh != nil {
				out = append(out, n)
			}
		}
		return out
	}

	visible := make([]*scene.Node, 0, len(candidates))
	for _, n := range candidates {
		if !n.Visible || n.Mesh == nil {
			continue
		}
		box := scene.ComputeAABB(n.Mesh, n.GetWorldMatrix())
		if frustum.TestAABB(box) != scene.Outside {
			visible = append(visible, n)
		} else {
			sr.lastRejected++
		}
	}
	return visible
}

// runShadowPasses renders depth from each shadow-casting light before the
// main pass. Directional/spot lights use the single 2D shadow map;
// the first point light found uses the six-face cube map.
func (sr *SceneRenderer) runShadowPasses(sc *scene.Scene) {
	if sr.GL.HasShadowMap() {
		for _, l := range sc.Lights {
			if l.Type == scene.LightTypePoint {
				continue
			}
			lightVP := directionalLightVP(l)
			sr.GL.BeginShadowPass()
			sc.Root.Traverse(func(n *scene.Node) {
				if n.Visible && n.Mesh != nil && n.Mesh.DrawMode == scene.DrawTriangles {
					sr.GL.DrawMeshShadow(n.Mesh, n.GetWorldMatrix().Mul(lightVP))
				}
			})
			sr.GL.EndShadowPass()
			break // one directional/spot shadow caster per frame
		}
	}

	if sr.GL.HasPointShadowMap() {
		for _, l := range sc.Lights {
			if l.Type != scene.LightTypePoint {
				continue
			}
			for face := 0; face < 6; face++ {
				faceVP := opengl.CubeFaceViewProj(l.Position, 0.1, l.Range, face)
				sr.GL.BeginPointShadowFace(face)
				sc.Root.Traverse(func(n *scene.Node) {
					if n.Visible && n.Mesh != nil && n.Mesh.DrawMode == scene.DrawTriangles {
						sr.GL.DrawMeshPointShadow(n.Mesh, n.GetWorldMatrix().Mul(faceVP))
					}
				})
				sr.GL.EndPointShadowPass()
			}
			break // one point shadow caster per frame
		}
	}
}

// directionalLightVP builds an orthographic view-projection matrix centered
// on the light direction; used for the directional/spot shadow pass.
func directionalLightVP(l *scene.Light) math.Mat4 {
	dir := l.Direction.Normalize()
	eye := dir.Mul(-40)
	view := math.Mat4LookAt(eye, math.Vec3{}, math.Vec3{X: 0, Y: 1, Z: 0})
	proj := math.Mat4Orthographic(-40, 40, -40, 40, 0.1, 100)
	return view.Mul(proj)
}

// ApplySettings reconfigures shadow maps, culling, wireframe, and bloom
// from the live settings tree. Safe to call more than once: shadow maps
// are only destroyed and recreated when the requested size actually
// changes (see SetShadowMapSize), and bloom only recompiles its shaders
// on the first enable thanks to EnableBloom's own guard.
func (sr *SceneRenderer) ApplySettings(st *settings.Store) {
	if err := sr.SetShadowMapSize(st.GetInt("graphics.shadow_map_size", 2048)); err != nil {
		logx.L().Warn().Err(err).Msg("ApplySettings: configure shadow maps")
	}

	sr.CullingEnabled = st.GetBool("graphics.culling_enabled", true)
	sr.GL.SetWireframe(st.GetBool("graphics.wireframe_mode", false))

	if st.GetBool("graphics.bloom_enabled", false) {
		if sr.GL.HasPostProcess() {
			if err := sr.GL.EnableBloom(); err != nil {
				logx.L().Warn().Err(err).Msg("ApplySettings: enable bloom")
			}
			sr.GL.SetBloomThreshold(float32(st.GetFloat("graphics.bloom_threshold", 1.0)))
			sr.GL.SetBloomStrength(float32(st.GetFloat("graphics.bloom_strength", 0.6)))
		}
	}
}

// SetShadowMapSize (re)creates the directional/spot shadow map and the
// point-light cube shadow map at size (and size/2 for the cube map).
// A no-op when size matches what's already applied, so repeated calls
// from a live settings subscriber don't thrash GPU handles; a genuine
// change destroys the old FBOs and allocates fresh ones via
// opengl.Renderer's own EnableShadows/EnablePointShadows, which already
// release any previously bound depth textures before recreating them.
func (sr *SceneRenderer) SetShadowMapSize(size int) error {
	if size == sr.lastShadowSize {
		return nil
	}
	if err := sr.GL.EnableShadows(size); err != nil {
		return err
	}
	if err := sr.GL.EnablePointShadows(size / 2); err != nil {
		return err
	}
	sr.lastShadowSize = size
	return nil
}

// Stats returns the most recent frame's drawn/rejected node counts.
func (sr *SceneRenderer) Stats() (drawn, rejected int) {
	return sr.lastDrawn, sr.lastRejected
}

// LoadGLTF loads a .glb/.gltf file and uploads every texture it references
// to the GPU before returning, so result.Roots are ready to add to a Scene
// and draw immediately (a Mesh whose Material references an un-uploaded
// Texture would draw with GLID 0, i.e. untextured).
func (sr *SceneRenderer) LoadGLTF(path string) (*scene.GLTFResult, error) {
	result, err := scene.LoadGLTF(path)
	if err != nil {
		return nil, err
	}
	for _, tex := range result.Textures {
		if err := opengl.UploadTexture(tex); err != nil {
			logx.L().Warn().Err(err).Str("texture", tex.Name).Msg("gltf texture upload failed")
		}
	}
	return result, nil
}

// LoadOBJ loads a Wavefront .obj (plus its .mtl, if any) and uploads every
// material texture referenced by the returned meshes to the GPU.
func (sr *SceneRenderer) LoadOBJ(path string) ([]*scene.Mesh, error) {
	meshes, err := scene.LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	for _, m := range meshes {
		sr.uploadMaterialTextures(m.Material)
	}
	return meshes, nil
}

func (sr *SceneRenderer) uploadMaterialTextures(mat *scene.Material) {
	if mat == nil {
		return
	}
	for _, tex := range [...]*scene.Texture{mat.AlbedoTexture, mat.NormalTexture, mat.MetallicRoughnessTexture, mat.EmissiveTexture} {
		if tex == nil || tex.GLID != 0 {
			continue
		}
		if err := opengl.UploadTexture(tex); err != nil {
			logx.L().Warn().Err(err).Str("texture", tex.Name).Msg("texture upload failed")
		}
	}
}
