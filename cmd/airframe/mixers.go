package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taigrr/airframe/internal/config"
	"github.com/taigrr/airframe/pkg/mixer"
	"github.com/taigrr/airframe/pkg/models"
)

func newMixersCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "mixers",
		Short: "List mixer types and their model assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags, false)
			if err != nil {
				return err
			}
			return listMixers(cmd.OutOrStdout(), os.DirFS(cfg.Viewer.AssetDir))
		},
	}
}

// listMixers prints the mixer catalog. The file column shows which asset
// file resolves for each entry, or "missing".
func listMixers(w io.Writer, assets fs.FS) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMODEL\tASSET\tMOTORS\tSERVOS\tFILE")
	for _, p := range mixer.All() {
		file, err := models.Resolve(assets, p.Asset())
		switch {
		case errors.Is(err, models.ErrAssetNotFound):
			file = "missing"
		case err != nil:
			return err
		}
		servos := "no"
		if p.Servos {
			servos = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			p.ID(), p.Name, p.Model, p.Asset(), p.Motors, servos, file)
	}
	return tw.Flush()
}

func parseMixerArg(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("mixer must be a number: %q", arg)
	}
	if _, err := mixer.Lookup(id); err != nil {
		return 0, err
	}
	return id, nil
}
