// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms lit, textured meshes.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader shades meshes with the ambient and spot lights.
//
//go:embed mesh.frag
var MeshFragmentShader string

// DepthVertexShader renders the shadow depth pass.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader is the empty depth-only fragment stage.
//
//go:embed depth.frag
var DepthFragmentShader string

// LinesVertexShader draws coloured debug lines.
//
//go:embed lines.vert
var LinesVertexShader string

// LinesFragmentShader draws coloured debug lines.
//
//go:embed lines.frag
var LinesFragmentShader string
