// Package computepass wraps one evaluation of the automaton rule: a full-screen pass that reads
// one grid texture and writes the next generation into another.
package computepass

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
)

// ErrUnbound is returned by Invoke when the input or output binding is missing.
var ErrUnbound = errors.New("compute pass input or output not bound")

// ComputePass evaluates the rule once over every cell. Each destination texel depends only on the
// Moore neighbourhood of the source texel at the same coordinates, so an invocation is a pure
// function of the input texture and the pass parameters.
//
// Bindings are consumed by Invoke: both are cleared after every invocation, whether it succeeded
// or not, and must be bound again before the next one.
type ComputePass interface {
	// BindInput selects the texture the pass reads.
	//
	// Parameters:
	//   - h: the current generation
	BindInput(h renderer.TextureHandle)

	// BindOutput selects the texture the pass writes.
	//
	// Parameters:
	//   - h: the render target for the next generation
	BindOutput(h renderer.TextureHandle)

	// Invoke runs the pass once and clears both bindings.
	//
	// Returns:
	//   - error: ErrUnbound if a binding is missing, or the renderer error
	Invoke() error

	// Program identifies the rule program the pass runs.
	//
	// Returns:
	//   - string: the pipeline key
	Program() string
}

// renderPass is the implementation of the ComputePass interface that renders through a Renderer.
type renderPass struct {
	r           renderer.Renderer
	pipelineKey string
	params      grid.GPUGridParams

	input  renderer.TextureHandle
	output renderer.TextureHandle
}

var _ ComputePass = &renderPass{}

// New creates a ComputePass that runs the simulation pipeline registered under pipelineKey.
//
// Parameters:
//   - r: the renderer holding the pipeline and the textures
//   - pipelineKey: key of a PipelineTypeSimulation pipeline
//   - params: the rule, topology and size uniforms passed to every invocation
//
// Returns:
//   - ComputePass: the pass
func New(r renderer.Renderer, pipelineKey string, params grid.GPUGridParams) ComputePass {
	return &renderPass{
		r:           r,
		pipelineKey: pipelineKey,
		params:      params,
	}
}

func (p *renderPass) BindInput(h renderer.TextureHandle) {
	p.input = h
}

func (p *renderPass) BindOutput(h renderer.TextureHandle) {
	p.output = h
}

func (p *renderPass) Invoke() error {
	in, out := p.input, p.output
	p.input, p.output = 0, 0

	if in == 0 || out == 0 {
		return fmt.Errorf("%s (input %d, output %d): %w", p.pipelineKey, in, out, ErrUnbound)
	}
	return p.r.RenderToTexture(p.pipelineKey, in, out, p.params)
}

func (p *renderPass) Program() string {
	return p.pipelineKey
}
