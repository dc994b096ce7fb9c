package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/geometry"
	"github.com/df07/go-haunted-house/pkg/lights"
	"github.com/df07/go-haunted-house/pkg/material"
)

// Node is an element of the scene graph. A node may carry a mesh (geometry
// plus material), a light, or nothing at all when it only groups children.
type Node struct {
	Name     string
	Position core.Vec3
	Rotation core.Vec3 // Euler angles in radians, applied in X, Y, Z order
	Scale    core.Vec3

	Geometry *geometry.BufferGeometry
	Material *material.Standard
	Light    *lights.Light

	CastShadow    bool
	ReceiveShadow bool
	Visible       bool // Hidden nodes hide their whole subtree

	Children []*Node
	parent   *Node
}

// NewGroup creates an empty node used to compose children
func NewGroup(name string) *Node {
	return &Node{Name: name, Scale: core.Splat(1), Visible: true}
}

// NewMesh creates a node rendering geometry with material
func NewMesh(name string, geo *geometry.BufferGeometry, mat *material.Standard) *Node {
	n := NewGroup(name)
	n.Geometry = geo
	n.Material = mat
	return n
}

// NewLightNode creates a node that positions a light
func NewLightNode(name string, light *lights.Light) *Node {
	n := NewGroup(name)
	n.Light = light
	return n
}

// Add attaches children to n, detaching each from its previous parent
func (n *Node) Add(children ...*Node) {
	for _, child := range children {
		if child == nil || child == n {
			continue
		}
		if child.parent != nil {
			child.parent.Remove(child)
		}
		child.parent = n
		n.Children = append(n.Children, child)
	}
}

// Remove detaches child from n; it is a no-op if child is not a direct child
func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the node's parent, or nil for a root
func (n *Node) Parent() *Node {
	return n.parent
}

// LocalMatrix returns T × Rx × Ry × Rz × S
func (n *Node) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position.X, n.Position.Y, n.Position.Z)
	r := mgl64.HomogRotate3DX(n.Rotation.X).
		Mul4(mgl64.HomogRotate3DY(n.Rotation.Y)).
		Mul4(mgl64.HomogRotate3DZ(n.Rotation.Z))
	s := mgl64.Scale3D(n.Scale.X, n.Scale.Y, n.Scale.Z)
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix composes the local matrices from the root down to n
func (n *Node) WorldMatrix() mgl64.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul4(n.LocalMatrix())
}

// WorldPosition returns the node origin in world space
func (n *Node) WorldPosition() core.Vec3 {
	return core.TransformPoint(n.WorldMatrix(), core.Vec3{})
}

// Traverse visits n and all descendants depth-first, parents before children
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// TraverseVisible is Traverse restricted to visible subtrees
func (n *Node) TraverseVisible(fn func(*Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.TraverseVisible(fn)
	}
}

// Find returns the first node named name in n's subtree
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// IsMesh reports whether the node renders geometry
func (n *Node) IsMesh() bool {
	return n.Geometry != nil
}
