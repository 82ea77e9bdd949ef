// Package viewer draws a flight controller's airframe model. A ModelViewer
// resolves the model for a mixer type, loads it in the background and then
// answers rotate, resize and render calls from its host, redrawing after
// each one.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/airframe/pkg/math3d"
	"github.com/taigrr/airframe/pkg/mixer"
	"github.com/taigrr/airframe/pkg/models"
	"github.com/taigrr/airframe/pkg/render"
	"github.com/taigrr/airframe/pkg/scene"
)

// ErrDisposed is returned by every operation after Dispose.
var ErrDisposed = errors.New("viewer disposed")

// Container reports the pixel size the viewer should fill.
type Container interface {
	Size() (width, height int)
}

// ContainerFunc adapts a function to Container.
type ContainerFunc func() (int, int)

// Size implements Container.
func (f ContainerFunc) Size() (int, int) { return f() }

// State is the lifecycle stage of a ModelViewer.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Scene parameters.
const (
	ambientColor   = 0x404040
	lightIntensity = 1.5
	cameraFOV      = 60 // degrees
	cameraNear     = 1
	cameraFar      = 1000
	cameraDistance = 125
)

// ModelViewer renders one airframe model. Its methods may be called from any
// goroutine but are meant for a single host loop; the background load is the
// only other writer.
type ModelViewer struct {
	opts      options
	log       *zap.Logger
	container Container
	surface   render.Surface
	asset     string

	mu      sync.Mutex
	state   State
	kind    render.Kind
	backend render.Backend
	scene   *scene.Scene
	camera  *scene.PerspectiveCamera
	ambient *scene.AmbientLight
	light   *scene.DirectionalLight
	wrapper *scene.Group
	model   *scene.Mesh
	width   int
	height  int

	cancel  context.CancelFunc
	done    chan struct{}
	loadErr error
}

// New builds a viewer for mixerID, sized to container and presenting to
// surface. It returns before the model is loaded; use Wait or
// WithLoadHandler to learn the outcome.
func New(ctx context.Context, container Container, surface render.Surface, mixerID int, opts ...Option) (*ModelViewer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.finish()

	asset, err := mixer.ResolveAsset(mixerID)
	if err != nil {
		return nil, err
	}

	v := &ModelViewer{
		opts:      o,
		log:       o.log.With(zap.Int("mixer", mixerID), zap.String("asset", asset)),
		container: container,
		surface:   surface,
		asset:     asset,
		done:      make(chan struct{}),
	}
	v.width, v.height = v.containerSize()

	if err := v.createBackend(); err != nil {
		return nil, err
	}
	v.buildScene()
	if v.kind == render.KindSoftware {
		v.applySoftwareOptimizations()
	}

	loadCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	go v.load(loadCtx)

	return v, nil
}

// containerSize reads the container, clamping each dimension to at least 1.
func (v *ModelViewer) containerSize() (int, int) {
	w, h := v.container.Size()
	if w < 1 || h < 1 {
		v.log.Warn("container size clamped", zap.Int("width", w), zap.Int("height", h))
		w, h = max(w, 1), max(h, 1)
	}
	return w, h
}

// createBackend picks and creates the backend. A hardware backend that fails
// to come up falls back to software.
func (v *ModelViewer) createBackend() error {
	var capability render.Capability
	if !v.opts.forceSoftware && v.opts.prober != nil {
		if err := v.opts.prober.Probe(); err != nil {
			v.log.Info("hardware rendering unavailable", zap.Error(err))
		} else {
			capability.Hardware = true
		}
	}

	kind := render.SelectBackend(capability, v.opts.forceSoftware)
	b, err := v.opts.factory.New(kind, v.opts.contextOpts)
	if err != nil && kind == render.KindHardware {
		v.log.Warn("hardware backend failed, using software", zap.Error(err))
		kind = render.KindSoftware
		b, err = v.opts.factory.New(kind, v.opts.contextOpts)
	}
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	if err := b.SetSize(v.width, v.height); err != nil {
		_ = b.Dispose()
		return fmt.Errorf("size backend: %w", err)
	}

	v.kind = kind
	v.backend = b
	v.log.Debug("backend ready", zap.Stringer("kind", kind), zap.Int("width", v.width), zap.Int("height", v.height))
	return nil
}

func (v *ModelViewer) buildScene() {
	s := scene.New()
	if v.opts.background != nil {
		bg := scene.HexColor(*v.opts.background)
		s.Background = &bg
	}

	v.ambient = scene.NewAmbientLight(ambientColor)
	s.Add(v.ambient)

	// Shines down from +Y
	v.light = scene.NewDirectionalLight(scene.White, lightIntensity)
	s.Add(v.light)

	v.camera = scene.NewPerspectiveCamera(
		scene.DegToRad(cameraFOV),
		float64(v.width)/float64(v.height),
		cameraNear,
		cameraFar,
	)
	v.camera.Position = math3d.V3(0, 0, cameraDistance)

	v.wrapper = scene.NewGroup("wrapper")
	s.Add(v.wrapper)

	v.scene = s
}

// applySoftwareOptimizations turns off per-frame matrix updates for
// everything static and computes those matrices once.
func (v *ModelViewer) applySoftwareOptimizations() {
	v.scene.AutoUpdate = false

	v.camera.MatrixAutoUpdate = false
	v.camera.UpdateMatrix()
	v.camera.UpdateMatrixWorld(false)

	v.wrapper.MatrixAutoUpdate = false
	v.wrapper.UpdateMatrix()
	v.wrapper.UpdateMatrixWorld(false)

	for _, l := range v.scene.Lights() {
		o := l.Base()
		o.MatrixAutoUpdate = false
		o.UpdateMatrix()
		o.UpdateMatrixWorld(false)
	}

	if v.model != nil {
		v.model.MatrixAutoUpdate = true
		v.model.FrustumCulled = true
		v.model.RenderOrder = 0
	}
}

func (v *ModelViewer) load(ctx context.Context) {
	defer close(v.done)

	err := v.loadModel(ctx)
	switch {
	case errors.Is(err, ErrDisposed), errors.Is(err, context.Canceled):
		v.log.Debug("model load abandoned", zap.Error(err))
	case err != nil:
		v.log.Error("model load failed", zap.Error(err))
	}

	v.mu.Lock()
	v.loadErr = err
	v.mu.Unlock()

	if v.opts.onLoad != nil {
		v.opts.onLoad(err)
	}
}

func (v *ModelViewer) loadModel(ctx context.Context) error {
	start := time.Now()

	mesh, err := models.Load(ctx, v.opts.assets, v.asset)
	if err != nil {
		return fmt.Errorf("load %s: %w", v.asset, err)
	}

	// Faces keep their corner normals, so merging does not soften edges.
	mesh.MergeVertices()
	mesh.ComputeBoundingSphere()

	elapsed := time.Since(start)
	v.opts.metrics.RecordDuration(OpLoad, elapsed)
	v.log.Info("model loaded",
		zap.Duration("duration", elapsed),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("faces", mesh.TriangleCount()),
		zap.Int("bytes", mesh.BufferBytes()),
	)

	v.mu.Lock()
	defer v.mu.Unlock()

	// Dispose may have run while the mesh was loading.
	if v.state == StateDisposed {
		return ErrDisposed
	}

	node := scene.NewMesh(mesh)
	node.SetScalar(v.opts.meshScale)
	v.wrapper.Add(node)
	v.model = node
	v.state = StateLoaded

	if v.kind == render.KindSoftware {
		v.applySoftwareOptimizations()
	}
	if err := v.renderLocked(); err != nil {
		v.log.Warn("initial render failed", zap.Error(err))
	}
	return nil
}

// Wait blocks until the load finishes or ctx is done and returns the load
// error. A load that completes after Dispose reports ErrDisposed.
func (v *ModelViewer) Wait(ctx context.Context) error {
	select {
	case <-v.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadErr
}

// State returns the current lifecycle stage.
func (v *ModelViewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Backend returns the kind of backend in use.
func (v *ModelViewer) Backend() render.Kind {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.kind
}

// RotateTo sets an absolute orientation: pitch x and roll z on the model,
// yaw y on the wrapper around it. Angles are in radians.
func (v *ModelViewer) RotateTo(x, y, z float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == StateDisposed {
		return ErrDisposed
	}
	if v.model == nil {
		return nil
	}

	start := time.Now()
	rot := v.model.Rotation()
	v.model.SetRotation(math3d.Euler{X: x, Y: rot.Y, Z: z})

	wrap := v.wrapper.Rotation()
	v.wrapper.SetRotation(math3d.Euler{X: wrap.X, Y: y, Z: wrap.Z})

	v.model.UpdateMatrix()
	v.wrapper.UpdateMatrix()
	err := v.renderLocked()
	v.opts.metrics.RecordDuration(OpRotateTo, time.Since(start))
	return err
}

// RotateBy rotates the model about its own X, then Y, then Z axis.
func (v *ModelViewer) RotateBy(x, y, z float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == StateDisposed {
		return ErrDisposed
	}
	if v.model == nil {
		return nil
	}

	start := time.Now()
	v.model.RotateX(x)
	v.model.RotateY(y)
	v.model.RotateZ(z)

	v.model.UpdateMatrix()
	v.wrapper.UpdateMatrix()
	err := v.renderLocked()
	v.opts.metrics.RecordDuration(OpRotateBy, time.Since(start))
	return err
}

// Render redraws the scene. It does nothing until the model is loaded.
func (v *ModelViewer) Render() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == StateDisposed {
		return ErrDisposed
	}
	return v.renderLocked()
}

func (v *ModelViewer) renderLocked() error {
	if v.model == nil {
		return nil
	}

	start := time.Now()

	v.model.UpdateMatrix()
	v.wrapper.UpdateMatrix()
	v.wrapper.UpdateMatrixWorld(true)

	fb, err := v.backend.Render(v.scene, v.camera)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := v.surface.Present(fb); err != nil {
		return fmt.Errorf("present: %w", err)
	}

	v.opts.metrics.RecordDuration(OpRender, time.Since(start))
	return nil
}

// Resize refits the viewer to the container's current size and redraws.
func (v *ModelViewer) Resize() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == StateDisposed {
		return ErrDisposed
	}

	start := time.Now()
	w, h := v.containerSize()
	if err := v.backend.SetSize(w, h); err != nil {
		return fmt.Errorf("resize backend: %w", err)
	}
	v.width, v.height = w, h

	v.camera.Aspect = float64(w) / float64(h)
	v.camera.UpdateProjectionMatrix()
	v.opts.metrics.RecordDuration(OpResize, time.Since(start))

	return v.renderLocked()
}

// Size returns the current drawing size in pixels.
func (v *ModelViewer) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Dispose cancels a pending load and releases the backend. It is safe to call
// more than once.
func (v *ModelViewer) Dispose() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == StateDisposed {
		return nil
	}
	v.state = StateDisposed
	v.cancel()

	if err := v.backend.Dispose(); err != nil {
		return fmt.Errorf("dispose backend: %w", err)
	}
	v.log.Debug("viewer disposed")
	return nil
}
