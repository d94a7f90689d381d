package commands

import (
	"time"

	"github.com/Carmen-Shannon/oxy-life/engine"
	"github.com/Carmen-Shannon/oxy-life/engine/config"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
)

// backendType maps the configured backend name onto the renderer type.
func backendType(name string) renderer.RendererBackendType {
	if name == "software" {
		return renderer.BackendTypeSoftware
	}
	return renderer.BackendTypeWGPU
}

// engineOptions translates a validated config into engine options.
func engineOptions(c *config.Config) ([]engine.EngineBuilderOption, error) {
	provider, err := c.Provider()
	if err != nil {
		return nil, err
	}

	presentMode := renderer.PresentModeUncapped
	if c.Window.VSync {
		presentMode = renderer.PresentModeVSync
	}

	return []engine.EngineBuilderOption{
		engine.WithBackend(backendType(c.Renderer.Backend)),
		engine.WithRendererOptions(
			renderer.WithForceSoftwareRenderer(c.Renderer.ForceFallback),
			renderer.WithWorkers(c.Renderer.Workers),
			renderer.WithTextureBudget(c.Renderer.TextureBudget),
			renderer.WithPresentMode(presentMode),
		),
		engine.WithGridSize(c.Grid.Width, c.Grid.Height),
		engine.WithTopology(c.Topology()),
		engine.WithRule(c.Rule()),
		engine.WithStrategy(c.Strategy()),
		engine.WithProvider(provider),
		engine.WithStepInterval(c.Simulation.StepInterval),
		engine.WithPaused(c.Simulation.Paused),
		engine.WithProfiling(c.Profiling.Enabled, time.Duration(c.Profiling.Interval*float64(time.Second))),
	}, nil
}
