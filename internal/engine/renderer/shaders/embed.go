// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SceneVertexShader is the vertex shader for lit scene rendering.
//
//go:embed scene.vert
var SceneVertexShader string

// SceneFragmentShader is the fragment shader for lit scene rendering.
//
//go:embed scene.frag
var SceneFragmentShader string

// ShadowVertexShader is the vertex shader for the shadow depth pass.
//
//go:embed shadow.vert
var ShadowVertexShader string

// ShadowFragmentShader is the fragment shader for the shadow depth pass.
//
//go:embed shadow.frag
var ShadowFragmentShader string
