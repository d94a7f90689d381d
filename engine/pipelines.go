package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-life/shaders"
)

const (
	// PipelineKeyLife is the simulation pipeline that evaluates the rule.
	PipelineKeyLife = "life"
	// PipelineKeyPresent is the pipeline that draws the published grid to the surface.
	PipelineKeyPresent = "present"
)

// newPipelines loads the embedded shaders and builds the simulation and present pipelines.
// Both share the full-screen quad vertex stage.
func newPipelines() (pipeline.Pipeline, pipeline.Pipeline, error) {
	vs, err := shader.NewShaderFromFS("quad", shader.ShaderTypeVertex, shaders.FS, shaders.Quad)
	if err != nil {
		return nil, nil, fmt.Errorf("loading quad shader: %w", err)
	}
	life, err := shader.NewShaderFromFS("life", shader.ShaderTypeFragment, shaders.FS, shaders.Life)
	if err != nil {
		return nil, nil, fmt.Errorf("loading life shader: %w", err)
	}
	present, err := shader.NewShaderFromFS("present", shader.ShaderTypeFragment, shaders.FS, shaders.Present)
	if err != nil {
		return nil, nil, fmt.Errorf("loading present shader: %w", err)
	}

	sim := pipeline.NewPipeline(PipelineKeyLife, pipeline.PipelineTypeSimulation,
		pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(life))
	pres := pipeline.NewPipeline(PipelineKeyPresent, pipeline.PipelineTypePresent,
		pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(present))
	return sim, pres, nil
}
