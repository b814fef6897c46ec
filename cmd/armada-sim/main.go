// cmd/armada-sim/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-armada/pkg/ai"
	"github.com/opd-ai/go-armada/pkg/class"
	"github.com/opd-ai/go-armada/pkg/config"
	"github.com/opd-ai/go-armada/pkg/engine"
	"github.com/opd-ai/go-armada/pkg/event"
	"github.com/opd-ai/go-armada/pkg/logging"
	"github.com/opd-ai/go-armada/pkg/metrics"
	"github.com/opd-ai/go-armada/pkg/render"
	"github.com/opd-ai/go-armada/pkg/scene"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	classesPath := flag.String("classes", "", "Path to class definitions (overrides level.classFile)")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	ticks := flag.Int("ticks", 3000, "Number of ticks to simulate")
	crafts := flag.Int("craft", 8, "Number of spacecraft")
	className := flag.String("class", "falcon", "Spacecraft class")
	radarEvery := flag.Int("radar", 0, "Draw a terminal radar every N ticks (0 disables)")
	radarScale := flag.Float64("radar-scale", 50, "Radar meters per character")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	registry := class.DefaultRegistry()
	if *classesPath == "" {
		*classesPath = cfg.Level.ClassFile
	}
	if *classesPath != "" {
		registry, err = class.LoadRegistry(*classesPath)
		if err != nil {
			logger.Error(ctx, "Failed to load class definitions", err,
				"classes_path", *classesPath,
			)
			os.Exit(1)
		}
	}

	combat, err := metrics.New(cfg.Metrics.Enabled)
	if err != nil {
		logger.Error(ctx, "Failed to create metrics", err)
		os.Exit(1)
	}

	recorder := scene.NewRecorder()
	level := engine.NewLevel(cfg, registry, recorder,
		engine.WithMetrics(combat),
		engine.WithLogger(logger),
	)

	var kills, hits int
	level.EventBus.Subscribe(event.SpacecraftDestroyed, func(event.Event) { kills++ })
	level.EventBus.Subscribe(event.ProjectileHit, func(event.Event) { hits++ })

	spawned, err := level.SpawnRandom(*className, *crafts)
	if err != nil {
		logger.Error(ctx, "Failed to spawn spacecraft", err,
			"class", *className,
		)
		os.Exit(1)
	}
	fighters := make([]*ai.Fighter, 0, len(spawned))
	for _, s := range spawned {
		f := ai.NewFighter(s)
		fighters = append(fighters, f)
		level.AddController(f)
	}
	if len(spawned) > 0 {
		level.SetPiloted(spawned[0])
	}
	level.AcquireResources()

	world := &ecs.World{}
	world.AddSystem(level)

	var radar *render.Terminal
	if *radarEvery > 0 {
		radar = render.NewTerminal(os.Stdout, 80, 24, *radarScale)
		radar.ClearTerm = true
	}

	level.Start()
	frame := float32(cfg.Level.TickMs / 1000)
	for i := 0; i < *ticks; i++ {
		world.Update(frame)
		recorder.Advance(cfg.Level.TickMs)
		recorder.Cleanup()

		if radar != nil && (i+1)%*radarEvery == 0 {
			if piloted := level.Piloted(); piloted != nil {
				radar.SetCenter(piloted.Position())
			}
			if err := radar.Frame(level.Spacecrafts(), level.Projectiles(), level.Piloted()); err != nil {
				logger.Error(ctx, "Failed to draw radar", err)
				radar = nil
			}
		}
	}
	level.Stop()

	fired := 0
	for _, f := range fighters {
		fired += f.Fired
	}
	logger.Info(ctx, "Simulation finished",
		"ticks", level.CurrentTick,
		"elapsed_ms", level.ElapsedMs,
		"survivors", len(level.Spacecrafts()),
		"kills", kills,
		"removed", level.Removed,
		"fired", fired,
		"hits", hits,
		"projectiles_in_flight", len(level.Projectiles()),
	)
}

// loadConfig reads the configuration file, falling back to the defaults when
// it does not exist, and applies environment overrides.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, error) {
	var cfg *config.GameConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
