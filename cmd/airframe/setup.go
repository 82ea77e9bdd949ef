package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/taigrr/airframe/internal/config"
	"github.com/taigrr/airframe/internal/logger"
	"github.com/taigrr/airframe/pkg/render"
	"github.com/taigrr/airframe/pkg/render/glrender"
	"github.com/taigrr/airframe/pkg/viewer"
)

// loadConfig loads configuration and initializes the global logger. quiet
// keeps logs off the terminal; only the log file, if any, receives them.
func loadConfig(flags *config.Flags, quiet bool) (*config.Config, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}

	if !quiet {
		err = logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	} else {
		var fileCfg logger.FileConfig
		if cfg.Logging.LogFile != "" {
			fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		}
		err = logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, nil)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// viewerOptions turns configuration into viewer options.
func viewerOptions(cfg *config.Config, log *zap.Logger) ([]viewer.Option, error) {
	ctxOpts, err := cfg.Render.ContextOptions()
	if err != nil {
		return nil, err
	}

	factory := render.NewFactory()
	glrender.Register(factory)

	opts := []viewer.Option{
		viewer.WithLogger(log),
		viewer.WithAssets(os.DirFS(cfg.Viewer.AssetDir)),
		viewer.WithForceSoftware(cfg.Viewer.ForceSoftware),
		viewer.WithProber(glrender.Prober),
		viewer.WithBackendFactory(factory),
		viewer.WithMeshScale(cfg.Viewer.MeshScale),
		viewer.WithContextOptions(ctxOpts),
	}

	hex, ok, err := cfg.Viewer.BackgroundColor()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, viewer.WithBackground(hex))
	}
	return opts, nil
}
