package stream

import (
	"fmt"
	"reflect"
	"sync"
)

// rootType is the universal root of every type chain.
var rootType = reflect.TypeFor[any]()

// Hierarchy resolves the ancestry of Go types for downcast routing.
//
// A struct type's parent is its first exported embedded field. A pointer to
// such a struct has a pointer to the embedded struct as parent. Explicit
// parents registered with Extend take precedence and must be interfaces the
// child implements. Every chain ends at the universal root, which is never
// part of the returned ancestors. Slice and array types are resolved by
// walking the element type and rewrapping each ancestor.
//
// Ancestor chains are computed once per type and cached.
type Hierarchy struct {
	mu      sync.RWMutex
	parents map[reflect.Type]reflect.Type
	chains  map[reflect.Type][]reflect.Type
	gen     uint64 // bumped by Extend; chains computed under an older gen are not cached
}

// NewHierarchy returns a hierarchy that only knows embedding relations.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		parents: make(map[reflect.Type]reflect.Type),
		chains:  make(map[reflect.Type][]reflect.Type),
	}
}

// Extend registers parent as the explicit parent of child.
func (h *Hierarchy) Extend(child, parent reflect.Type) error {
	if child == nil || parent == nil {
		return ErrInvalidKey
	}
	if parent.Kind() != reflect.Interface || !child.Implements(parent) {
		return fmt.Errorf("%w: %s -> %s", ErrNotAssignable, child, parent)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.parents[child] = parent
	h.gen++
	clear(h.chains)
	return nil
}

// Parent returns the direct parent of t, or the universal root.
func (h *Hierarchy) Parent(t reflect.Type) reflect.Type {
	h.mu.RLock()
	p, ok := h.parents[t]
	h.mu.RUnlock()
	if ok {
		return p
	}

	switch t.Kind() {
	case reflect.Struct:
		if i, ok := embeddedIndex(t); ok {
			return t.Field(i).Type
		}
	case reflect.Pointer:
		if t.Elem().Kind() != reflect.Struct {
			break
		}
		if i, ok := embeddedIndex(t.Elem()); ok {
			f := t.Elem().Field(i).Type
			if f.Kind() == reflect.Struct {
				return reflect.PointerTo(f)
			}
			return f
		}
	}
	return rootType
}

// Ancestors returns the ancestors of t, nearest first, without t itself and
// without the universal root.
func (h *Hierarchy) Ancestors(t reflect.Type) []reflect.Type {
	if t == nil || t == rootType {
		return nil
	}

	h.mu.RLock()
	chain, ok := h.chains[t]
	gen := h.gen
	h.mu.RUnlock()
	if ok {
		return chain
	}

	chain = h.computeAncestors(t)

	h.mu.Lock()
	if h.gen == gen {
		h.chains[t] = chain
	}
	h.mu.Unlock()

	return chain
}

func (h *Hierarchy) computeAncestors(t reflect.Type) []reflect.Type {
	switch t.Kind() {
	case reflect.Slice:
		elems := h.Ancestors(t.Elem())
		chain := make([]reflect.Type, 0, len(elems))
		for _, e := range elems {
			chain = append(chain, reflect.SliceOf(e))
		}
		return chain
	case reflect.Array:
		elems := h.Ancestors(t.Elem())
		chain := make([]reflect.Type, 0, len(elems))
		for _, e := range elems {
			chain = append(chain, reflect.ArrayOf(t.Len(), e))
		}
		return chain
	}

	var chain []reflect.Type
	seen := map[reflect.Type]struct{}{t: {}}
	for cur := h.Parent(t); cur != rootType; cur = h.Parent(cur) {
		if _, dup := seen[cur]; dup {
			break
		}
		seen[cur] = struct{}{}
		chain = append(chain, cur)
	}
	return chain
}

// Upcast converts v to the ancestor type target by following the same chain
// Ancestors uses. Slices and arrays are converted element by element.
func (h *Hierarchy) Upcast(v any, target reflect.Type) (any, bool) {
	if v == nil || target == nil {
		return nil, false
	}
	if target == rootType {
		return v, true
	}

	out, ok := h.upcastValue(reflect.ValueOf(v), target)
	if !ok {
		return nil, false
	}
	return out.Interface(), true
}

func (h *Hierarchy) upcastValue(rv reflect.Value, target reflect.Type) (reflect.Value, bool) {
	seen := make(map[reflect.Type]struct{})

	for {
		t := rv.Type()
		if t == target {
			return rv, true
		}
		if _, dup := seen[t]; dup {
			return reflect.Value{}, false
		}
		seen[t] = struct{}{}

		switch {
		case t.Kind() == reflect.Slice && target.Kind() == reflect.Slice:
			out := reflect.MakeSlice(target, rv.Len(), rv.Len())
			if !h.upcastElems(rv, out, target.Elem()) {
				return reflect.Value{}, false
			}
			return out, true
		case t.Kind() == reflect.Array && target.Kind() == reflect.Array && t.Len() == target.Len():
			out := reflect.New(target).Elem()
			if !h.upcastElems(rv, out, target.Elem()) {
				return reflect.Value{}, false
			}
			return out, true
		}

		next, ok := h.step(rv)
		if !ok {
			return reflect.Value{}, false
		}
		rv = next
	}
}

func (h *Hierarchy) upcastElems(src, dst reflect.Value, elem reflect.Type) bool {
	for i := 0; i < src.Len(); i++ {
		e, ok := h.upcastValue(src.Index(i), elem)
		if !ok {
			return false
		}
		dst.Index(i).Set(e)
	}
	return true
}

// step moves rv one level up its chain.
func (h *Hierarchy) step(rv reflect.Value) (reflect.Value, bool) {
	t := rv.Type()

	h.mu.RLock()
	p, explicit := h.parents[t]
	h.mu.RUnlock()
	if explicit {
		return rv.Convert(p), true
	}

	switch t.Kind() {
	case reflect.Struct:
		if i, ok := embeddedIndex(t); ok {
			return rv.Field(i), true
		}
	case reflect.Pointer:
		if rv.IsNil() || t.Elem().Kind() != reflect.Struct {
			break
		}
		i, ok := embeddedIndex(t.Elem())
		if !ok {
			break
		}
		f := rv.Elem().Field(i)
		if f.Kind() == reflect.Struct {
			return f.Addr(), true
		}
		if f.Kind() == reflect.Pointer && f.IsNil() {
			break
		}
		return f, true
	}
	return reflect.Value{}, false
}

// embeddedIndex returns the index of the first exported embedded field of a struct type.
func embeddedIndex(t reflect.Type) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.IsExported() {
			return i, true
		}
	}
	return 0, false
}
