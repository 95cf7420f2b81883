package workitem

import "github.com/valter-silva-au/witag/pkg/models"

// MethodSnapshot is a copy of the tags declared on one method.
type MethodSnapshot struct {
	Name string
	Tags []models.WorkItem
}

// ClassSnapshot is a copy of everything declared on one class.
type ClassSnapshot struct {
	Name    string
	Parents []string
	Tags    []models.WorkItem
	Methods []MethodSnapshot
}

// Snapshot returns a deep copy of all declarations in declaration order.
func (r *Registry) Snapshot() []ClassSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ClassSnapshot, 0, len(r.order))
	for _, name := range r.order {
		c := r.classes[name]
		cs := ClassSnapshot{
			Name:    c.name,
			Parents: append([]string(nil), c.parents...),
			Tags:    c.tags.Items(),
		}
		for _, m := range c.methods {
			cs.Methods = append(cs.Methods, MethodSnapshot{Name: m.name, Tags: m.tags.Items()})
		}
		out = append(out, cs)
	}
	return out
}

// Restore replays snapshots into r. Declarations are appended to whatever r
// already holds.
func (r *Registry) Restore(classes []ClassSnapshot) {
	for _, cs := range classes {
		decl := r.Class(cs.Name, cs.Tags...).Extends(cs.Parents...)
		for _, m := range cs.Methods {
			decl.Method(m.Name, m.Tags...)
		}
	}
}
