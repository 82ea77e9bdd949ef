package viewer

import (
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/taigrr/airframe/pkg/render"
)

// DefaultAssetDir is where model assets are looked up when no FS is given.
const DefaultAssetDir = "resources/models"

// DefaultMeshScale is the uniform scale applied to loaded meshes.
const DefaultMeshScale = 15

type options struct {
	log           *zap.Logger
	metrics       MetricsSink
	assets        fs.FS
	forceSoftware bool
	prober        render.Prober
	factory       render.Factory
	meshScale     float64
	onLoad        func(error)
	contextOpts   render.ContextOptions
	background    *uint32
}

func defaultOptions() options {
	return options{
		log:           zap.NewNop(),
		forceSoftware: true,
		factory:       render.NewFactory(),
		meshScale:     DefaultMeshScale,
		contextOpts:   render.DefaultContextOptions(),
	}
}

// Option configures a ModelViewer.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics sets the metrics sink. The default is a StatsLogger on the
// viewer's logger.
func WithMetrics(m MetricsSink) Option {
	return func(o *options) { o.metrics = m }
}

// WithAssets sets the asset root. The default is DefaultAssetDir on disk.
func WithAssets(fsys fs.FS) Option {
	return func(o *options) { o.assets = fsys }
}

// WithForceSoftware skips the hardware probe and uses the software backend.
// It is on by default.
func WithForceSoftware(force bool) Option {
	return func(o *options) { o.forceSoftware = force }
}

// WithProber sets the hardware capability probe. Without one the hardware
// backend is never selected.
func WithProber(p render.Prober) Option {
	return func(o *options) { o.prober = p }
}

// WithBackendFactory sets the factory backends are created from.
func WithBackendFactory(f render.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithMeshScale sets the uniform scale applied to the loaded mesh.
func WithMeshScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.meshScale = s
		}
	}
}

// WithLoadHandler registers a callback invoked once with the load result.
func WithLoadHandler(fn func(error)) Option {
	return func(o *options) { o.onLoad = fn }
}

// WithContextOptions overrides the backend context options.
func WithContextOptions(opts render.ContextOptions) Option {
	return func(o *options) { o.contextOpts = opts }
}

// WithBackground sets an opaque 0xRRGGBB scene background.
func WithBackground(hex uint32) Option {
	return func(o *options) { o.background = &hex }
}

func (o *options) finish() {
	if o.assets == nil {
		o.assets = os.DirFS(DefaultAssetDir)
	}
	if o.metrics == nil {
		o.metrics = NewStatsLogger(o.log)
	}
}
