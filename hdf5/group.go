package hdf5

import (
	"fmt"
	"path"

	"github.com/robert-malhotra/sofia2hdf5/internal/message"
	"github.com/robert-malhotra/sofia2hdf5/internal/object"
)

// Group is an HDF5 group: a named collection of links and attributes.
type Group struct {
	file   *File
	parent *Group
	path   string
	addr   uint64

	links []*message.Link
	attrs []*message.Attribute

	// Write mode only.
	children map[string]any // *Group or *Dataset
	dirty    bool
}

func newGroup(f *File, p string, parent *Group) *Group {
	return &Group{
		file:     f,
		parent:   parent,
		path:     p,
		children: make(map[string]any),
		dirty:    true,
	}
}

func newGroupFromHeader(f *File, hdr *object.Header, p string, parent *Group) *Group {
	return &Group{
		file:   f,
		parent: parent,
		path:   p,
		addr:   hdr.Address,
		links:  hdr.Links(),
		attrs:  hdr.Attributes(),
	}
}

// Name returns the last path component, or "/" for the root.
func (g *Group) Name() string {
	if g.path == "/" {
		return "/"
	}
	return path.Base(g.path)
}

// Path returns the absolute path of the group.
func (g *Group) Path() string { return g.path }

// Parent returns the containing group, or nil for the root.
func (g *Group) Parent() *Group { return g.parent }

// Members returns the names of the group's links in creation order.
func (g *Group) Members() []string {
	names := make([]string, len(g.links))
	for i, l := range g.links {
		names[i] = l.Name
	}
	return names
}

// OpenGroup opens a group by path relative to g.
func (g *Group) OpenGroup(p string) (*Group, error) {
	obj, err := g.open(p)
	if err != nil {
		return nil, err
	}
	sub, ok := obj.(*Group)
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrNotGroup)
	}
	return sub, nil
}

// OpenDataset opens a dataset by path relative to g.
func (g *Group) OpenDataset(p string) (*Dataset, error) {
	obj, err := g.open(p)
	if err != nil {
		return nil, err
	}
	ds, ok := obj.(*Dataset)
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrNotDataset)
	}
	return ds, nil
}

func (g *Group) open(p string) (any, error) {
	if g.file.closed {
		return nil, ErrClosed
	}
	var obj any = g
	for _, name := range SplitPath(p) {
		cur, ok := obj.(*Group)
		if !ok {
			return nil, fmt.Errorf("%s: %w", p, ErrNotGroup)
		}
		child, err := cur.child(name)
		if err != nil {
			return nil, err
		}
		obj = child
	}
	return obj, nil
}

func (g *Group) child(name string) (any, error) {
	if g.children != nil {
		if c, ok := g.children[name]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("%s: %w", childPath(g.path, name), ErrNotFound)
	}
	for _, l := range g.links {
		if l.Name == name {
			return g.file.openObjectAt(l.Address, childPath(g.path, name), g)
		}
	}
	return nil, fmt.Errorf("%s: %w", childPath(g.path, name), ErrNotFound)
}

// Attrs returns the attribute names in storage order.
func (g *Group) Attrs() []string { return attrNames(g.attrs) }

// Attr returns the named attribute, or nil.
func (g *Group) Attr(name string) *Attribute { return findAttr(g.attrs, name) }
