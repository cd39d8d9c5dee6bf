// Package renderer draws a scene graph with OpenGL.
package renderer

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/roboview/internal/engine/camera"
	"github.com/Faultbox/roboview/internal/engine/renderer/shaders"
	"github.com/Faultbox/roboview/internal/engine/shader"
	"github.com/Faultbox/roboview/internal/engine/shadow"
	"github.com/Faultbox/roboview/internal/scenegraph"
	"github.com/Faultbox/roboview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width            int
	Height           int
	ShadowResolution int32
	ClearColor       [3]float32
}

// gpuGeometry holds the GL objects backing one uploaded geometry.
type gpuGeometry struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

type renderItem struct {
	mesh  *scenegraph.Mesh
	world math.Mat4
}

type directionalLight struct {
	position    math.Vec3
	target      math.Vec3
	color       math.Vec3
	castsShadow bool
	extent      float32
}

// Renderer handles all OpenGL rendering of the scene graph.
// Must be created after a GL context exists, and all methods must run
// on the thread owning that context.
type Renderer struct {
	config Config

	program       uint32
	shadowProgram uint32
	shadowMap     *shadow.Map

	locMVP            int32
	locModel          int32
	locLightViewProj  int32
	locBaseColor      int32
	locLightDir       int32
	locLightColor     int32
	locSkyColor       int32
	locGroundColor    int32
	locShadowsEnabled int32
	locReceiveShadow  int32
	locShadowMap      int32

	locShadowPassLVP   int32
	locShadowPassModel int32

	buffers map[*scenegraph.Geometry]*gpuGeometry

	releaseMu      sync.Mutex
	pendingRelease []*gpuGeometry

	opaque      []renderItem
	translucent []renderItem
}

// New creates a renderer. Requires a current OpenGL context.
func New(cfg Config) (*Renderer, error) {
	if cfg.ShadowResolution == 0 {
		cfg.ShadowResolution = shadow.DefaultResolution
	}

	r := &Renderer{
		config:  cfg,
		buffers: make(map[*scenegraph.Geometry]*gpuGeometry),
	}

	program, err := shader.CompileProgram(shaders.SceneVertexShader, shaders.SceneFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}
	r.program = program

	r.locMVP = shader.GetUniform(program, "uMVP")
	r.locModel = shader.GetUniform(program, "uModel")
	r.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	r.locBaseColor = shader.GetUniform(program, "uBaseColor")
	r.locLightDir = shader.GetUniform(program, "uLightDir")
	r.locLightColor = shader.GetUniform(program, "uLightColor")
	r.locSkyColor = shader.GetUniform(program, "uSkyColor")
	r.locGroundColor = shader.GetUniform(program, "uGroundColor")
	r.locShadowsEnabled = shader.GetUniform(program, "uShadowsEnabled")
	r.locReceiveShadow = shader.GetUniform(program, "uReceiveShadow")
	r.locShadowMap = shader.GetUniform(program, "uShadowMap")

	shadowProgram, err := shader.CompileProgram(shaders.ShadowVertexShader, shaders.ShadowFragmentShader)
	if err != nil {
		gl.DeleteProgram(r.program)
		return nil, fmt.Errorf("shadow shader: %w", err)
	}
	r.shadowProgram = shadowProgram
	r.locShadowPassLVP = shader.GetUniform(shadowProgram, "uLightViewProj")
	r.locShadowPassModel = shader.GetUniform(shadowProgram, "uModel")

	shadowMap, err := shadow.NewMap(cfg.ShadowResolution)
	if err != nil {
		gl.DeleteProgram(r.program)
		gl.DeleteProgram(r.shadowProgram)
		return nil, fmt.Errorf("shadow map: %w", err)
	}
	r.shadowMap = shadowMap

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1.0)

	return r, nil
}

// Resize updates the framebuffer size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Render draws the scene graph from the camera's point of view.
func (r *Renderer) Render(root *scenegraph.Node, cam *camera.OrbitCamera) {
	r.drainReleases()

	r.opaque = r.opaque[:0]
	r.translucent = r.translucent[:0]

	var dirLight *directionalLight
	sky := math.Vec3{X: 0.4, Y: 0.4, Z: 0.4}
	ground := math.Vec3{X: 0.15, Y: 0.15, Z: 0.15}

	root.Traverse(func(n *scenegraph.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Light != nil {
			switch n.Light.Kind {
			case scenegraph.LightHemisphere:
				sky = scaleColor(n.Light.Color, n.Light.Intensity)
				ground = scaleColor(n.Light.GroundColor, n.Light.Intensity)
			case scenegraph.LightDirectional:
				l := &directionalLight{
					position:    n.WorldMatrix().TransformPoint(math.Vec3{}),
					color:       scaleColor(n.Light.Color, n.Light.Intensity),
					castsShadow: n.Light.CastShadow,
					extent:      n.Light.ShadowExtent,
				}
				if n.Light.Target != nil {
					l.target = n.Light.Target.WorldMatrix().TransformPoint(math.Vec3{})
				}
				dirLight = l
			}
		}
		if n.Mesh != nil && n.Mesh.Geometry != nil {
			item := renderItem{mesh: n.Mesh, world: n.WorldMatrix()}
			mat := n.Mesh.Material
			if mat != nil && (mat.Translucent || mat.Color[3] < 1.0) {
				r.translucent = append(r.translucent, item)
			} else {
				r.opaque = append(r.opaque, item)
			}
		}
		return true
	})

	lightViewProj := math.Identity()
	shadowsActive := false
	if dirLight != nil && dirLight.castsShadow && dirLight.extent > 0 {
		lightViewProj = shadow.FitDirectional(dirLight.position, dirLight.target, dirLight.extent)
		r.renderShadowPass(lightViewProj)
		shadowsActive = true
	}

	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	aspect := float32(1)
	if r.config.Height > 0 {
		aspect = float32(r.config.Width) / float32(r.config.Height)
	}
	viewProj := cam.ProjectionMatrix(aspect).Mul(cam.ViewMatrix())

	gl.UseProgram(r.program)

	lightDir := math.Vec3{Y: 1}
	lightColor := math.Vec3{}
	if dirLight != nil {
		lightDir = dirLight.position.Sub(dirLight.target).Normalize()
		lightColor = dirLight.color
	}
	gl.Uniform3f(r.locLightDir, lightDir.X, lightDir.Y, lightDir.Z)
	gl.Uniform3f(r.locLightColor, lightColor.X, lightColor.Y, lightColor.Z)
	gl.Uniform3f(r.locSkyColor, sky.X, sky.Y, sky.Z)
	gl.Uniform3f(r.locGroundColor, ground.X, ground.Y, ground.Z)
	gl.UniformMatrix4fv(r.locLightViewProj, 1, false, lightViewProj.Ptr())

	if shadowsActive {
		gl.Uniform1i(r.locShadowsEnabled, 1)
		r.shadowMap.BindTexture(gl.TEXTURE1)
		gl.Uniform1i(r.locShadowMap, 1)
	} else {
		gl.Uniform1i(r.locShadowsEnabled, 0)
	}

	for _, item := range r.opaque {
		r.drawItem(item, viewProj)
	}

	if len(r.translucent) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		for _, item := range r.translucent {
			r.drawItem(item, viewProj)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}

	gl.BindVertexArray(0)
}

func scaleColor(c [3]float32, s float32) math.Vec3 {
	return math.Vec3{X: c[0] * s, Y: c[1] * s, Z: c[2] * s}
}

func (r *Renderer) drawItem(item renderItem, viewProj math.Mat4) {
	buf := r.geometryBuffer(item.mesh)
	if buf == nil {
		return
	}

	mvp := viewProj.Mul(item.world)
	gl.UniformMatrix4fv(r.locMVP, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.locModel, 1, false, item.world.Ptr())

	color := scenegraph.DefaultMaterial().Color
	if item.mesh.Material != nil {
		color = item.mesh.Material.Color
	}
	gl.Uniform4f(r.locBaseColor, color[0], color[1], color[2], color[3])

	receive := int32(0)
	if item.mesh.ReceiveShadow {
		receive = 1
	}
	gl.Uniform1i(r.locReceiveShadow, receive)

	gl.BindVertexArray(buf.vao)
	gl.DrawElements(gl.TRIANGLES, buf.indexCount, gl.UNSIGNED_INT, nil)
}

func (r *Renderer) renderShadowPass(lightViewProj math.Mat4) {
	r.shadowMap.Bind()
	gl.UseProgram(r.shadowProgram)
	gl.UniformMatrix4fv(r.locShadowPassLVP, 1, false, lightViewProj.Ptr())

	for _, item := range r.opaque {
		if !item.mesh.CastShadow {
			continue
		}
		buf := r.geometryBuffer(item.mesh)
		if buf == nil {
			continue
		}
		gl.UniformMatrix4fv(r.locShadowPassModel, 1, false, item.world.Ptr())
		gl.BindVertexArray(buf.vao)
		gl.DrawElements(gl.TRIANGLES, buf.indexCount, gl.UNSIGNED_INT, nil)
	}

	gl.BindVertexArray(0)
	r.shadowMap.Unbind()
}

// geometryBuffer returns the GL buffers for a mesh's geometry, uploading
// on first use and installing a releaser so the buffers are reclaimed
// when the mesh is released.
func (r *Renderer) geometryBuffer(mesh *scenegraph.Mesh) *gpuGeometry {
	geom := mesh.Geometry
	if buf, ok := r.buffers[geom]; ok {
		return buf
	}
	if len(geom.Positions) == 0 || len(geom.Indices) == 0 {
		return nil
	}

	buf := r.uploadGeometry(geom)
	r.buffers[geom] = buf

	mesh.SetReleaser(func() {
		r.releaseMu.Lock()
		r.pendingRelease = append(r.pendingRelease, buf)
		r.releaseMu.Unlock()
		delete(r.buffers, geom)
	})

	return buf
}

func (r *Renderer) uploadGeometry(geom *scenegraph.Geometry) *gpuGeometry {
	vertexCount := len(geom.Positions) / 3

	// Interleave position and normal
	vertices := make([]float32, 0, vertexCount*6)
	for i := 0; i < vertexCount; i++ {
		vertices = append(vertices, geom.Positions[i*3], geom.Positions[i*3+1], geom.Positions[i*3+2])
		if len(geom.Normals) >= (i+1)*3 {
			vertices = append(vertices, geom.Normals[i*3], geom.Normals[i*3+1], geom.Normals[i*3+2])
		} else {
			vertices = append(vertices, 0, 1, 0)
		}
	}

	buf := &gpuGeometry{indexCount: int32(len(geom.Indices))}

	gl.GenVertexArrays(1, &buf.vao)
	gl.BindVertexArray(buf.vao)

	gl.GenBuffers(1, &buf.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &buf.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(geom.Indices)*4, unsafe.Pointer(&geom.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return buf
}

// ReadPixels returns the current framebuffer contents as RGBA bytes in
// GL bottom-up row order.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// drainReleases frees GL buffers queued for release. Runs on the GL thread.
func (r *Renderer) drainReleases() {
	r.releaseMu.Lock()
	pending := r.pendingRelease
	r.pendingRelease = nil
	r.releaseMu.Unlock()

	for _, buf := range pending {
		deleteBuffers(buf)
	}
}

func deleteBuffers(buf *gpuGeometry) {
	if buf.vao != 0 {
		gl.DeleteVertexArrays(1, &buf.vao)
		buf.vao = 0
	}
	if buf.vbo != 0 {
		gl.DeleteBuffers(1, &buf.vbo)
		buf.vbo = 0
	}
	if buf.ebo != 0 {
		gl.DeleteBuffers(1, &buf.ebo)
		buf.ebo = 0
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	r.drainReleases()
	for geom, buf := range r.buffers {
		deleteBuffers(buf)
		delete(r.buffers, geom)
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.shadowMap = nil
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	if r.shadowProgram != 0 {
		gl.DeleteProgram(r.shadowProgram)
		r.shadowProgram = 0
	}
}
