// Package shaders embeds the WGSL sources for the full-screen quad, the life rule pass and the presentation pass.
package shaders

import "embed"

// FS holds every embedded shader source.
//
//go:embed *.wgsl
var FS embed.FS

// Paths of the embedded sources within FS.
const (
	Quad    = "quad.wgsl"
	Life    = "life.wgsl"
	Present = "present.wgsl"
)
