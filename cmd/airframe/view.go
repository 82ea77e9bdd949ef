package main

import (
	"context"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/airframe/internal/config"
	"github.com/taigrr/airframe/internal/logger"
	"github.com/taigrr/airframe/pkg/mixer"
	"github.com/taigrr/airframe/pkg/render"
	"github.com/taigrr/airframe/pkg/viewer"
)

func newViewCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "view [mixer]",
		Short: "Show a mixer model in the terminal",
		Long: `Show the 3D model of a mixer type in the terminal.

Controls:
  Mouse drag  - Spin model (pitch/yaw)
  W/S         - Pitch up/down
  A/D         - Yaw left/right
  Q/E         - Roll left/right
  R           - Reset rotation
  ?           - Toggle HUD overlay
  Esc         - Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Console logging would tear the alternate screen.
			cfg, err := loadConfig(flags, true)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if cfg.Viewer.Mixer, err = parseMixerArg(args[0]); err != nil {
					return err
				}
			}
			return runView(cmd.Context(), cfg)
		},
	}
}

func runView(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("view")

	profile, err := mixer.Lookup(cfg.Viewer.Mixer)
	if err != nil {
		return err
	}

	opts, err := viewerOptions(cfg, logger.Named("viewer"))
	if err != nil {
		return err
	}
	opts = append(opts, viewer.WithLoadHandler(func(err error) {
		if err != nil {
			log.Error("model load failed", zap.String("mixer", profile.Name), zap.Error(err))
		}
	}))

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-motion mouse tracking with SGR coordinates
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctl := newControls(cfg.Viewer.FPS, width, height)
	container := viewer.ContainerFunc(func() (int, int) {
		return render.CellSize(ctl.size())
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v, err := viewer.New(ctx, container, render.NewTerminalSurface(term), cfg.Viewer.Mixer, opts...)
	if err != nil {
		return err
	}
	defer v.Dispose()

	hud := NewHUD(os.Stdout, profile.Name, v.Backend().String())
	log.Info("viewer started",
		zap.String("mixer", profile.Name),
		zap.Stringer("backend", v.Backend()),
		zap.Int("fps", cfg.Viewer.FPS))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return eventLoop(ctx, cancel, term, ctl, v)
	})
	g.Go(func() error {
		return frameLoop(ctx, cfg.Viewer.FPS, ctl, v, hud)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("viewer stopped", zap.Float64("fps", hud.FPS()))
	return nil
}

func eventLoop(ctx context.Context, quit context.CancelFunc, term *uv.Terminal, ctl *controls, v *viewer.ModelViewer) error {
	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				quit()
				return nil
			}
			switch ctl.handle(ev) {
			case actionQuit:
				quit()
				return nil
			case actionResize:
				width, height := ctl.size()
				term.Erase()
				term.Resize(width, height)
				if err := v.Resize(); err != nil {
					return fmt.Errorf("resize: %w", err)
				}
			}
		}
	}
}

func frameLoop(ctx context.Context, fps int, ctl *controls, v *viewer.ModelViewer, hud *HUD) error {
	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		pitch, yaw, roll := ctl.step(dt)
		if v.State() == viewer.StateLoaded {
			if err := v.RotateTo(pitch, yaw, roll); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}

		width, height := ctl.size()
		hud.UpdateFPS()
		hud.Render(width, height, ctl.hudVisible())

		// Frame timing
		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
