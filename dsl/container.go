package dsl

import (
	"context"
	"errors"
)

var errNotValueKind = errors.New("dsl: expected a value-kind node")

// container is embedded by node types that hold an ordered list of children
// under a uniform validation rule (e.g. "every child must be value-kind").
// It supplies Children/UpdateChild/InsertChild/RemoveChild so each composite
// node file only has to declare what its children must satisfy.
type container struct {
	kids     []Node
	validate func(Node) error
}

func newContainer(validate func(Node) error, kids ...Node) (container, error) {
	c := container{validate: validate}
	for _, k := range kids {
		if err := c.InsertChild(len(c.kids), k); err != nil {
			return container{}, err
		}
	}
	return c, nil
}

func (c *container) Children() []Node {
	out := make([]Node, len(c.kids))
	copy(out, c.kids)
	return out
}

func (c *container) UpdateChild(i int, n Node) error {
	if i < 0 || i >= len(c.kids) {
		return errChildIndex
	}
	if c.validate != nil {
		if err := c.validate(n); err != nil {
			return err
		}
	}
	c.kids[i] = n
	return nil
}

func (c *container) InsertChild(i int, n Node) error {
	if i < 0 || i > len(c.kids) {
		return errChildIndex
	}
	if c.validate != nil {
		if err := c.validate(n); err != nil {
			return err
		}
	}
	c.kids = append(c.kids, nil)
	copy(c.kids[i+1:], c.kids[i:])
	c.kids[i] = n
	return nil
}

func (c *container) RemoveChild(i int) error {
	if i < 0 || i >= len(c.kids) {
		return errChildIndex
	}
	c.kids = append(c.kids[:i], c.kids[i+1:]...)
	return nil
}

func (c *container) isResolved() bool {
	for _, k := range c.kids {
		if !k.IsResolved() {
			return false
		}
	}
	return true
}

func (leaf) Eval(context.Context, Runtime) (any, error) {
	panic("dsl: Eval not implemented for this leaf type")
}

func equalChildren(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// anyKind accepts every node as a valid child.
func anyKind(Node) error { return nil }

// valueKind accepts only nodes for which ValueKind reports true.
func valueKind(n Node) error {
	if !n.ValueKind() {
		return errNotValueKind
	}
	return nil
}
