package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/airframe/pkg/scene"
)

var (
	// ErrUnknownBackend is returned when no constructor is registered for a Kind.
	ErrUnknownBackend = errors.New("unknown render backend")
	// ErrBackendDisposed is returned by a backend used after Dispose.
	ErrBackendDisposed = errors.New("render backend disposed")
)

// Kind identifies a render backend implementation.
type Kind int

const (
	// KindSoftware rasterizes on the CPU.
	KindSoftware Kind = iota
	// KindHardware renders through the GPU.
	KindHardware
)

func (k Kind) String() string {
	switch k {
	case KindSoftware:
		return "software"
	case KindHardware:
		return "hardware"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Capability is the outcome of probing the host for hardware rendering.
type Capability struct {
	Hardware bool
}

// Prober checks whether a hardware context can be created.
type Prober interface {
	Probe() error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func() error

// Probe implements Prober.
func (f ProberFunc) Probe() error { return f() }

// SelectBackend chooses the backend kind. forceSoftware wins over the probe.
func SelectBackend(c Capability, forceSoftware bool) Kind {
	if forceSoftware || !c.Hardware {
		return KindSoftware
	}
	return KindHardware
}

// Precision is the shader float precision hint.
type Precision int

const (
	PrecisionLow Precision = iota
	PrecisionMedium
	PrecisionHigh
)

// Qualifier returns the GLSL precision qualifier.
func (p Precision) Qualifier() string {
	switch p {
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	default:
		return "lowp"
	}
}

// ContextOptions configure a backend's drawing context.
type ContextOptions struct {
	Alpha           bool // clear to transparent instead of the background
	Antialias       bool
	Precision       Precision
	PowerPreference string
}

// DefaultContextOptions favors speed over quality.
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		Alpha:           true,
		Antialias:       false,
		Precision:       PrecisionLow,
		PowerPreference: "high-performance",
	}
}

// Backend draws a scene from a camera into a framebuffer.
type Backend interface {
	Kind() Kind
	// SetSize resizes the drawing buffer. Dimensions must be positive.
	SetSize(width, height int) error
	// Render draws the scene and returns the finished frame. The frame is
	// owned by the backend and valid until the next Render or SetSize.
	Render(s *scene.Scene, cam *scene.PerspectiveCamera) (*Framebuffer, error)
	// Dispose releases the backend's resources. Calling it again is a no-op.
	Dispose() error
}

// Constructor creates a backend.
type Constructor func(opts ContextOptions) (Backend, error)

// Factory maps backend kinds to constructors.
type Factory map[Kind]Constructor

// NewFactory returns a factory that knows the software backend.
func NewFactory() Factory {
	return Factory{
		KindSoftware: func(opts ContextOptions) (Backend, error) {
			return NewSoftwareBackend(opts), nil
		},
	}
}

// Register adds or replaces the constructor for kind.
func (f Factory) Register(kind Kind, c Constructor) {
	f[kind] = c
}

// New builds a backend of the given kind.
func (f Factory) New(kind Kind, opts ContextOptions) (Backend, error) {
	c, ok := f[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}
	b, err := c(opts)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", kind, err)
	}
	return b, nil
}

func checkSize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	return nil
}
