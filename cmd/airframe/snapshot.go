package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/airframe/internal/config"
	"github.com/taigrr/airframe/internal/logger"
	"github.com/taigrr/airframe/pkg/render"
	"github.com/taigrr/airframe/pkg/scene"
	"github.com/taigrr/airframe/pkg/viewer"
)

// snapshotOptions are the flags of the snapshot command.
type snapshotOptions struct {
	out              string
	width, height    int
	pitch, yaw, roll float64 // degrees
	timeout          time.Duration
}

func newSnapshotCmd(flags *config.Flags) *cobra.Command {
	so := snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot [mixer]",
		Short: "Render a mixer model to a PNG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags, false)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if cfg.Viewer.Mixer, err = parseMixerArg(args[0]); err != nil {
					return err
				}
			}
			if err := runSnapshot(cmd.Context(), cfg, so); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", so.out)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&so.out, "out", "o", "airframe.png", "output PNG path")
	fs.IntVar(&so.width, "width", 640, "image width in pixels")
	fs.IntVar(&so.height, "height", 480, "image height in pixels")
	fs.Float64Var(&so.pitch, "pitch", 0, "rotation about X in degrees")
	fs.Float64Var(&so.yaw, "yaw", 0, "rotation about Y in degrees")
	fs.Float64Var(&so.roll, "roll", 0, "rotation about Z in degrees")
	fs.DurationVar(&so.timeout, "timeout", 30*time.Second, "model load timeout")
	return cmd
}

func runSnapshot(ctx context.Context, cfg *config.Config, so snapshotOptions) error {
	if so.width <= 0 || so.height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", so.width, so.height)
	}

	opts, err := viewerOptions(cfg, logger.Named("viewer"))
	if err != nil {
		return err
	}

	surface := render.NewImageSurface()
	container := viewer.ContainerFunc(func() (int, int) { return so.width, so.height })

	v, err := viewer.New(ctx, container, surface, cfg.Viewer.Mixer, opts...)
	if err != nil {
		return err
	}
	defer v.Dispose()

	waitCtx, cancel := context.WithTimeout(ctx, so.timeout)
	defer cancel()
	if err := v.Wait(waitCtx); err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	if err := v.RotateTo(scene.DegToRad(so.pitch), scene.DegToRad(so.yaw), scene.DegToRad(so.roll)); err != nil {
		return err
	}
	if err := surface.SavePNG(so.out); err != nil {
		return err
	}

	logger.Named("snapshot").Info("snapshot written",
		zap.String("path", so.out),
		zap.Stringer("backend", v.Backend()),
		zap.Int("width", so.width),
		zap.Int("height", so.height))
	return nil
}
