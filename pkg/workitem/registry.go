// Package workitem is the declaration and introspection surface for work
// item tags. Go has no annotations, so tags are recorded in a Registry keyed
// by test target, and tooling reads them back from there.
//
// Tags on a class are inherited by every class that extends it. Tags on a
// method belong to that method only. Effective class tags are resolved
// root-to-leaf: ancestors first, depth-first in the order parents were
// declared, each ancestor contributing its tags once, then the class's own.
package workitem

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/valter-silva-au/witag/pkg/models"
)

var (
	// ErrInheritanceCycle is returned when a class is its own ancestor.
	ErrInheritanceCycle = errors.New("inheritance cycle")

	// ErrUnknownTarget is returned when a lookup needs a class that was
	// never declared.
	ErrUnknownTarget = errors.New("unknown target")
)

type methodEntry struct {
	name string
	tags models.WorkItemList
}

type classEntry struct {
	name    string
	parents []string
	tags    models.WorkItemList
	methods []*methodEntry
}

func (c *classEntry) method(name string) *methodEntry {
	for _, m := range c.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// Registry records the work items declared on test classes and methods.
// It only ever grows: declarations append, nothing is removed or rewritten.
// The zero value is an empty Registry ready to use. A Registry is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*classEntry
	order   []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*classEntry)}
}

// ClassDecl is returned by Registry.Class to chain further declarations on
// the same class.
type ClassDecl struct {
	reg  *Registry
	name string
}

// Class declares a test class, or reopens one declared earlier, and appends
// tags to it.
func (r *Registry) Class(name string, tags ...models.WorkItem) *ClassDecl {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.classLocked(name)
	c.tags = c.tags.Append(tags...)
	return &ClassDecl{reg: r, name: name}
}

// Type declares the Go type of v as a test class. Every embedded struct
// field is recorded as a parent class, in field order, so tags declared on
// an embedded suite apply to the embedding one.
func (r *Registry) Type(v any, tags ...models.WorkItem) *ClassDecl {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	decl := r.Class(TypeName(v), tags...)
	if t == nil || t.Kind() != reflect.Struct {
		return decl
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			decl.Extends(qualifiedName(ft))
		}
	}
	return decl
}

// classLocked returns the entry for name, creating it if needed.
// The caller must hold r.mu for writing.
func (r *Registry) classLocked(name string) *classEntry {
	if c, ok := r.classes[name]; ok {
		return c
	}
	if r.classes == nil {
		r.classes = make(map[string]*classEntry)
	}
	c := &classEntry{name: name}
	r.classes[name] = c
	r.order = append(r.order, name)
	return c
}

// Name returns the class name.
func (d *ClassDecl) Name() string {
	return d.name
}

// Extends records parents as superclasses. A parent listed twice is kept
// once.
func (d *ClassDecl) Extends(parents ...string) *ClassDecl {
	d.reg.mu.Lock()
	defer d.reg.mu.Unlock()

	c := d.reg.classLocked(d.name)
	for _, p := range parents {
		if p == "" || containsString(c.parents, p) {
			continue
		}
		c.parents = append(c.parents, p)
	}
	return d
}

// Tag appends tags to the class.
func (d *ClassDecl) Tag(tags ...models.WorkItem) *ClassDecl {
	d.reg.mu.Lock()
	defer d.reg.mu.Unlock()

	c := d.reg.classLocked(d.name)
	c.tags = c.tags.Append(tags...)
	return d
}

// Method appends tags to a method of the class, declaring it if needed.
func (d *ClassDecl) Method(name string, tags ...models.WorkItem) *ClassDecl {
	d.reg.mu.Lock()
	defer d.reg.mu.Unlock()

	c := d.reg.classLocked(d.name)
	m := c.method(name)
	if m == nil {
		m = &methodEntry{name: name}
		c.methods = append(c.methods, m)
	}
	m.tags = m.tags.Append(tags...)
	return d
}

// OwnTags returns the tags declared directly on target, in declaration order.
func (r *Registry) OwnTags(target models.Target) []models.WorkItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ownLocked(target)
}

// Tags returns the effective tags of target. For a method that is its own
// tags. For a class it is the tags of every ancestor, root first, followed
// by its own. Undeclared targets have no tags.
func (r *Registry) Tags(target models.Target) ([]models.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.effectiveLocked(target)
}

// TagSets returns the effective and own tags of target read at the same
// point, so the own tags are always the tail of the effective ones.
func (r *Registry) TagSets(target models.Target) (effective, own []models.WorkItem, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	effective, err = r.effectiveLocked(target)
	if err != nil {
		return nil, nil, err
	}
	return effective, r.ownLocked(target), nil
}

func (r *Registry) ownLocked(target models.Target) []models.WorkItem {
	c, ok := r.classes[target.Class]
	if !ok {
		return nil
	}
	if target.IsMethod() {
		m := c.method(target.Method)
		if m == nil {
			return nil
		}
		return m.tags.Items()
	}
	return c.tags.Items()
}

func (r *Registry) effectiveLocked(target models.Target) ([]models.WorkItem, error) {
	if target.IsMethod() {
		return r.ownLocked(target), nil
	}
	if _, ok := r.classes[target.Class]; !ok {
		return nil, nil
	}
	chain, err := r.resolveLocked(target.Class)
	if err != nil {
		return nil, err
	}
	var out []models.WorkItem
	for _, name := range chain {
		if c, ok := r.classes[name]; ok {
			out = append(out, c.tags...)
		}
	}
	return out, nil
}

// Ancestors returns the classes whose tags class inherits, in resolution
// order, root first. Parents that were never declared are included since
// they are still part of the hierarchy.
func (r *Registry) Ancestors(class string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.classes[class]; !ok {
		return nil, fmt.Errorf("resolving ancestors of %s: %w", class, ErrUnknownTarget)
	}
	chain, err := r.resolveLocked(class)
	if err != nil {
		return nil, err
	}
	return chain[:len(chain)-1], nil
}

// Parents returns the direct parents declared for class.
func (r *Registry) Parents(class string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[class]
	if !ok {
		return nil
	}
	out := make([]string, len(c.parents))
	copy(out, c.parents)
	return out
}

// resolveLocked returns class preceded by its ancestors in resolution order.
func (r *Registry) resolveLocked(class string) ([]string, error) {
	var (
		chain    []string
		done     = make(map[string]bool)
		visiting = make(map[string]bool)
		path     []string
	)

	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("resolving %s: %w: %s", class, ErrInheritanceCycle, strings.Join(append(path, name), " -> "))
		}
		visiting[name] = true
		path = append(path, name)
		if c, ok := r.classes[name]; ok {
			for _, p := range c.parents {
				if err := visit(p); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		visiting[name] = false
		done[name] = true
		chain = append(chain, name)
		return nil
	}

	if err := visit(class); err != nil {
		return nil, err
	}
	return chain, nil
}

// Targets returns every declared target in declaration order, each class
// followed by its methods.
func (r *Registry) Targets() []models.Target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Target
	for _, name := range r.order {
		c := r.classes[name]
		out = append(out, models.ClassTarget(name))
		for _, m := range c.methods {
			out = append(out, models.MethodTarget(name, m.name))
		}
	}
	return out
}

// References returns the targets whose own tags carry the given work item
// ID, in target order. Inherited tags are not followed.
func (r *Registry) References(id string) []models.Target {
	var out []models.Target
	for _, t := range r.Targets() {
		for _, w := range r.OwnTags(t) {
			if w.ID == id {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// TypeName returns the class name Registry.Type uses for the Go type of v:
// its package path and type name joined by a dot.
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return qualifiedName(t)
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
