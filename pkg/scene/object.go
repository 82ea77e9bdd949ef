// Package scene is a small retained-mode scene graph: nodes carry a local
// transform, compose it with their parent's world matrix and are drawn by a
// render backend from a camera's point of view.
package scene

import "github.com/taigrr/airframe/pkg/math3d"

// Node is anything that can be placed in the graph.
type Node interface {
	// Base returns the embedded transform state.
	Base() *Object
	// UpdateMatrixWorld recomputes world matrices of the node and its
	// descendants. force recomputes even when nothing is marked dirty.
	UpdateMatrixWorld(force bool)
}

// Object holds the local transform of a node and its place in the graph.
//
// Rotation and quaternion describe the same orientation and are kept in
// sync by the setters.
type Object struct {
	Name     string
	Position math3d.Vec3
	Scale    math3d.Vec3

	// Matrix is the local transform, MatrixWorld the transform to world space.
	Matrix      math3d.Mat4
	MatrixWorld math3d.Mat4

	// MatrixAutoUpdate recomposes Matrix on every UpdateMatrixWorld.
	MatrixAutoUpdate bool
	FrustumCulled    bool
	RenderOrder      int
	Visible          bool

	rotation   math3d.Euler
	quaternion math3d.Quat

	matrixWorldNeedsUpdate bool

	parent   *Object
	children []Node
}

func newObject(name string) Object {
	return Object{
		Name:             name,
		Scale:            math3d.One3(),
		Matrix:           math3d.Identity(),
		MatrixWorld:      math3d.Identity(),
		MatrixAutoUpdate: true,
		FrustumCulled:    true,
		Visible:          true,
		quaternion:       math3d.QuatIdentity(),
	}
}

// Base implements Node.
func (o *Object) Base() *Object {
	return o
}

// Rotation returns the orientation as XYZ Euler angles.
func (o *Object) Rotation() math3d.Euler {
	return o.rotation
}

// SetRotation sets the orientation from XYZ Euler angles.
func (o *Object) SetRotation(e math3d.Euler) {
	o.rotation = e
	o.quaternion = math3d.QuatFromEuler(e)
}

// Quaternion returns the orientation as a unit quaternion.
func (o *Object) Quaternion() math3d.Quat {
	return o.quaternion
}

// SetQuaternion sets the orientation from a quaternion.
func (o *Object) SetQuaternion(q math3d.Quat) {
	o.quaternion = q.Normalize()
	o.rotation = math3d.EulerFromQuat(o.quaternion)
}

// SetScalar sets a uniform scale.
func (o *Object) SetScalar(s float64) {
	o.Scale = math3d.V3(s, s, s)
}

// RotateOnAxis rotates by angle radians around a normalized axis in the
// object's local frame.
func (o *Object) RotateOnAxis(axis math3d.Vec3, angle float64) {
	o.SetQuaternion(o.quaternion.Mul(math3d.QuatFromAxisAngle(axis, angle)))
}

// RotateX rotates around the local X axis.
func (o *Object) RotateX(angle float64) {
	o.RotateOnAxis(math3d.UnitX(), angle)
}

// RotateY rotates around the local Y axis.
func (o *Object) RotateY(angle float64) {
	o.RotateOnAxis(math3d.Up(), angle)
}

// RotateZ rotates around the local Z axis.
func (o *Object) RotateZ(angle float64) {
	o.RotateOnAxis(math3d.UnitZ(), angle)
}

// UpdateMatrix composes the local matrix from position, quaternion and scale.
func (o *Object) UpdateMatrix() {
	o.Matrix = math3d.Compose(o.Position, o.quaternion, o.Scale)
	o.matrixWorldNeedsUpdate = true
}

// MatrixWorldNeedsUpdate reports whether the local matrix changed since the
// world matrix was last computed.
func (o *Object) MatrixWorldNeedsUpdate() bool {
	return o.matrixWorldNeedsUpdate
}

// UpdateMatrixWorld implements Node.
func (o *Object) UpdateMatrixWorld(force bool) {
	if o.MatrixAutoUpdate {
		o.UpdateMatrix()
	}

	if o.matrixWorldNeedsUpdate || force {
		if o.parent == nil {
			o.MatrixWorld = o.Matrix
		} else {
			o.MatrixWorld = o.parent.MatrixWorld.Mul(o.Matrix)
		}
		o.matrixWorldNeedsUpdate = false
		force = true
	}

	for _, child := range o.children {
		child.UpdateMatrixWorld(force)
	}
}

// Parent returns the parent object, or nil for a root.
func (o *Object) Parent() *Object {
	return o.parent
}

// Children returns the direct children.
func (o *Object) Children() []Node {
	return o.children
}

// Add attaches child, detaching it from any previous parent.
func (o *Object) Add(child Node) {
	b := child.Base()
	if b == o {
		return
	}
	if b.parent != nil {
		b.parent.Remove(child)
	}
	b.parent = o
	o.children = append(o.children, child)
}

// Remove detaches child if it is a direct child.
func (o *Object) Remove(child Node) {
	b := child.Base()
	for i, c := range o.children {
		if c.Base() == b {
			o.children = append(o.children[:i], o.children[i+1:]...)
			b.parent = nil
			return
		}
	}
}

// Traverse calls fn for the node and every descendant, depth first.
func Traverse(n Node, fn func(Node)) {
	fn(n)
	for _, child := range n.Base().children {
		Traverse(child, fn)
	}
}

// WorldPosition returns the translation part of the world matrix.
func (o *Object) WorldPosition() math3d.Vec3 {
	return o.MatrixWorld.Translation()
}
