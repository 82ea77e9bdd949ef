package config

import "github.com/spf13/pflag"

// Flags are the command-line overrides shared by every command.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath string
	Debug      bool
	LogFile    string
	Mixer      int
	AssetDir   string
	Software   bool
	FPS        int
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file")
	fs.IntVarP(&f.Mixer, "mixer", "m", 0, "mixer type (1-27)")
	fs.StringVar(&f.AssetDir, "assets", "", "model asset directory")
	fs.BoolVar(&f.Software, "software", true, "force the software renderer")
	fs.IntVar(&f.FPS, "fps", 0, "target frames per second")
	return f
}

// applyFlags applies flags that were set explicitly.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil || f.fs == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.fs.Changed("log-file") {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.fs.Changed("mixer") {
		cfg.Viewer.Mixer = f.Mixer
	}
	if f.fs.Changed("assets") {
		cfg.Viewer.AssetDir = f.AssetDir
	}
	if f.fs.Changed("software") {
		cfg.Viewer.ForceSoftware = f.Software
	}
	if f.fs.Changed("fps") {
		cfg.Viewer.FPS = f.FPS
	}
}
