package timemap

import (
	"slices"
	"sync"
)

// Container is a set of named members the binder can walk and rewrite.
type Container interface {
	Keys() []string
	Get(key string) any
	Set(key string, value any)
}

// Object is an insertion-ordered Container safe for concurrent use.
type Object struct {
	mu     sync.RWMutex
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return slices.Clone(o.keys)
}

// Get returns the member for key or nil.
func (o *Object) Get(key string) any {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.values[key]
}

// Set stores value under key, keeping the original position of existing keys.
func (o *Object) Set(key string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.values[key] = value
}

// Len returns the number of members.
func (o *Object) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return len(o.keys)
}

// Map is a Container over a plain map. Keys are returned sorted.
type Map map[string]any

// Keys returns the sorted keys.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Get returns the member for key or nil.
func (m Map) Get(key string) any { return m[key] }

// Set stores value under key.
func (m Map) Set(key string, value any) { m[key] = value }

// BindMember instruments the member of c called member, in place.
//
// A callable member is replaced by its instrumented value, named
// prefix.member (or member when prefix is empty), and every callable member
// of its template is instrumented under member.template. A member that is
// itself a Container has its callable members instrumented under prefix, or
// under member when prefix is empty. Absent members are skipped. Only one
// level of nesting is followed.
func (r *Registry) BindMember(c Container, member, prefix string) {
	if c == nil {
		return
	}

	target := c.Get(member)
	if isNil(target) {
		return
	}

	if isCallable(target) {
		r.bindCallable(c, member, prefix)

		if t, ok := target.(Templater); ok {
			if tpl := t.Template(); !isNil(tpl) {
				r.bindContainer(tpl, member+".template")
			}
		}

		return
	}

	if nested, ok := target.(Container); ok {
		if prefix == "" {
			prefix = member
		}

		r.bindContainer(nested, prefix)
	}
}

// BindAll runs BindMember for every key of c.
func (r *Registry) BindAll(c Container, prefix string) {
	if c == nil {
		return
	}

	for _, key := range c.Keys() {
		r.BindMember(c, key, prefix)
	}
}

func (r *Registry) bindCallable(c Container, member, prefix string) {
	v := c.Get(member)
	if !isCallable(v) {
		return
	}

	c.Set(member, r.Wrap(v, joinName(prefix, member)))
}

func (r *Registry) bindContainer(c Container, prefix string) {
	for _, key := range c.Keys() {
		r.bindCallable(c, key, prefix)
	}
}

func joinName(prefix, member string) string {
	if prefix == "" {
		return member
	}

	return prefix + "." + member
}
