// airframe - flight controller airframe preview
// Shows the 3D model for a mixer type in the terminal or renders it to PNG.
//
// Controls (view):
//
//	Mouse drag  - Spin model (pitch/yaw)
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	R           - Reset rotation
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/airframe/internal/config"
	"github.com/taigrr/airframe/internal/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "airframe",
		Short: "Flight controller airframe preview",
		Long: `airframe - flight controller airframe preview

Draws the 3D model of a mixer type (Quad X, Hex +, Flying Wing, ...) in the
terminal or into a PNG file.`,
		SilenceUsage: true,
	}

	flags := config.BindFlags(root.PersistentFlags())
	root.PersistentPostRun = func(*cobra.Command, []string) { logger.Sync() }

	root.AddCommand(
		newViewCmd(flags),
		newSnapshotCmd(flags),
		newMixersCmd(flags),
	)
	return root
}
