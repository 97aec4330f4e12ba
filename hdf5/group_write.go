package hdf5

import (
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/message"
	"github.com/robert-malhotra/sofia2hdf5/internal/object"
)

// CreateGroup adds an empty subgroup.
func (g *Group) CreateGroup(name string) (*Group, error) {
	if err := g.checkNewLink(name); err != nil {
		return nil, err
	}
	sub := newGroup(g.file, childPath(g.path, name), g)
	g.addLink(name, sub, message.UndefinedAddress)
	return sub, nil
}

// SetAttribute attaches an attribute to the group. Values follow the
// rules of WithAttribute.
func (g *Group) SetAttribute(name string, value any) error {
	if err := g.file.checkWritable(); err != nil {
		return err
	}
	if findAttr(g.attrs, name) != nil {
		return fmt.Errorf("attribute %s: %w", JoinAttrPath(g.path, name), ErrExists)
	}
	attr, err := newAttributeMessage(name, value)
	if err != nil {
		return fmt.Errorf("attribute %s: %w", JoinAttrPath(g.path, name), err)
	}
	g.attrs = append(g.attrs, attr)
	g.markDirty()
	return nil
}

func (g *Group) checkNewLink(name string) error {
	if err := g.file.checkWritable(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%s: empty link name", g.path)
	}
	if _, ok := g.children[name]; ok {
		return fmt.Errorf("%s: %w", childPath(g.path, name), ErrExists)
	}
	return nil
}

func (g *Group) addLink(name string, obj any, addr uint64) *message.Link {
	link := message.NewHardLink(name, addr)
	g.links = append(g.links, link)
	g.children[name] = obj
	g.markDirty()
	return link
}

// markDirty flags g and its ancestors for rewriting on the next Flush.
func (g *Group) markDirty() {
	for p := g; p != nil && !p.dirty; p = p.parent {
		p.dirty = true
	}
}

// flush writes dirty subgroups first so that their new addresses are in
// g's links, then writes g itself at a fresh address.
func (g *Group) flush() error {
	if !g.dirty {
		return nil
	}
	for _, l := range g.links {
		sub, ok := g.children[l.Name].(*Group)
		if !ok {
			continue
		}
		if err := sub.flush(); err != nil {
			return err
		}
		l.Address = sub.addr
	}

	msgs := object.GroupMessages(g.links, g.attrs)
	size, err := object.Size(g.file.writer, msgs, object.MinGroupChunkSize)
	if err != nil {
		return fmt.Errorf("%s: %w", g.path, err)
	}
	addr := g.file.allocate(size)
	if _, err := object.Write(g.file.writer.At(int64(addr)), msgs, object.MinGroupChunkSize); err != nil {
		return fmt.Errorf("%s: %w", g.path, err)
	}
	g.addr = addr
	g.dirty = false
	return nil
}
