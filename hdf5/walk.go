package hdf5

import "errors"

// SkipGroup can be returned by a WalkFunc visiting a group to skip its
// members.
var SkipGroup = errors.New("skip this group")

// WalkFunc is called for every object visited by Walk. obj is a *Group or
// a *Dataset; err is set when a member could not be opened, in which case
// obj is nil.
type WalkFunc func(path string, obj any, err error) error

// Walk visits g and everything below it depth first, members in link
// order. Returning an error other than SkipGroup stops the walk.
//
//	hdf5.Walk(f.Root(), func(path string, obj any, err error) error {
//		if ds, ok := obj.(*hdf5.Dataset); ok {
//			fmt.Println(path, ds.Shape())
//		}
//		return err
//	})
func Walk(g *Group, fn WalkFunc) error {
	err := walkGroup(g, fn)
	if errors.Is(err, SkipGroup) {
		return nil
	}
	return err
}

func walkGroup(g *Group, fn WalkFunc) error {
	if err := fn(g.Path(), g, nil); err != nil {
		return err
	}
	for _, name := range g.Members() {
		p := childPath(g.Path(), name)
		obj, err := g.child(name)
		if err != nil {
			if err := fn(p, nil, err); err != nil {
				return err
			}
			continue
		}
		switch o := obj.(type) {
		case *Group:
			if err := walkGroup(o, fn); err != nil && !errors.Is(err, SkipGroup) {
				return err
			}
		case *Dataset:
			if err := fn(p, o, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// AttrInfo describes one attribute visited by WalkAttrs.
type AttrInfo struct {
	Path       string // object@name
	ObjectPath string
	Name       string
	Attr       *Attribute
	Value      any   // nil when Err is set
	Err        error // from decoding the value
}

// WalkAttrs calls fn for every attribute of every group and dataset under
// g, in Walk order.
func WalkAttrs(g *Group, fn func(AttrInfo) error) error {
	return Walk(g, func(p string, obj any, err error) error {
		if err != nil {
			return err
		}
		var names []string
		var get func(string) *Attribute
		switch o := obj.(type) {
		case *Group:
			names, get = o.Attrs(), o.Attr
		case *Dataset:
			names, get = o.Attrs(), o.Attr
		}
		for _, name := range names {
			a := get(name)
			val, verr := a.Value()
			info := AttrInfo{
				Path:       JoinAttrPath(p, name),
				ObjectPath: p,
				Name:       name,
				Attr:       a,
				Value:      val,
				Err:        verr,
			}
			if err := fn(info); err != nil {
				return err
			}
		}
		return nil
	})
}
