package shadow

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrIncompleteFramebuffer is returned when the driver rejects the
// depth-only framebuffer; callers should disable shadows and continue.
var ErrIncompleteFramebuffer = errors.New("shadow: framebuffer incomplete")

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Map is a depth-only framebuffer the shadow pass renders into and the
// main pass samples with hardware depth comparison.
type Map struct {
	FBO          uint32
	DepthTexture uint32
	Resolution   int32

	prevViewport [4]int32
}

// NewMap creates a shadow map with the given resolution (a power of two;
// <= 0 selects DefaultResolution).
func NewMap(resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	sm := &Map{Resolution: resolution}

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)

	gl.GenTextures(1, &sm.DepthTexture)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, resolution, resolution,
		0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// White border so everything outside the frustum reads as lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := []float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	// Comparison mode for sampler2DShadow.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.DepthTexture, 0)

	// Depth only, no color attachment.
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, ErrIncompleteFramebuffer
	}

	return sm, nil
}

// Bind enters the shadow pass: binds the depth framebuffer, sets the
// viewport to the map resolution, and front-face culls to reduce acne.
func (sm *Map) Bind() {
	gl.GetIntegerv(gl.VIEWPORT, &sm.prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.Viewport(0, 0, sm.Resolution, sm.Resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// Unbind leaves the shadow pass, restoring viewport and back-face culling.
func (sm *Map) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(sm.prevViewport[0], sm.prevViewport[1], sm.prevViewport[2], sm.prevViewport[3])
	gl.CullFace(gl.BACK)
}

// BindTexture binds the depth texture for sampling in the main pass.
func (sm *Map) BindTexture(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTexture)
}

// Destroy releases the GPU resources.
func (sm *Map) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTexture != 0 {
		gl.DeleteTextures(1, &sm.DepthTexture)
		sm.DepthTexture = 0
	}
}
