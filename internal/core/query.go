package core

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/valter-silva-au/witag/pkg/models"
	"github.com/valter-silva-au/witag/pkg/workitem"
)

// TaggedTarget pairs a target with its tags.
type TaggedTarget struct {
	Target models.Target
	// Effective holds own and inherited tags, root first.
	Effective []models.WorkItem
	// Own holds the tags declared on the target itself.
	Own []models.WorkItem
	// Err is set by Find when the target's tags could not be resolved,
	// such as a class inside an inheritance cycle. Its tag slices are empty.
	Err error
}

// Inherited returns the effective tags that were not declared on the
// target itself.
func (t TaggedTarget) Inherited() []models.WorkItem {
	if len(t.Own) >= len(t.Effective) {
		return nil
	}
	return t.Effective[:len(t.Effective)-len(t.Own)]
}

// QueryFilter narrows the targets returned by a Query.
// Empty fields match everything.
type QueryFilter struct {
	// Glob is a doublestar pattern matched against Target.String, where "."
	// and "#" are ordinary characters and "/" separates segments.
	Glob string
	Type models.WorkItemType
	// TaggedOnly drops targets without effective tags.
	TaggedOnly bool
}

// Query reads effective tags out of a registry. Find reports targets that
// fail to resolve through TaggedTarget.Err instead of failing the whole
// listing.
type Query interface {
	Find(filter QueryFilter) ([]TaggedTarget, error)
	Get(target models.Target) (TaggedTarget, error)
}

type registryQuery struct {
	reg *workitem.Registry
}

// NewQuery creates a Query over reg.
func NewQuery(reg *workitem.Registry) Query {
	return &registryQuery{reg: reg}
}

func (q *registryQuery) Get(target models.Target) (TaggedTarget, error) {
	effective, own, err := q.reg.TagSets(target)
	if err != nil {
		return TaggedTarget{}, fmt.Errorf("resolving tags of %s: %w", target, err)
	}
	return TaggedTarget{Target: target, Effective: effective, Own: own}, nil
}

func (q *registryQuery) Find(filter QueryFilter) ([]TaggedTarget, error) {
	if filter.Glob != "" && !doublestar.ValidatePattern(filter.Glob) {
		return nil, fmt.Errorf("invalid glob %q", filter.Glob)
	}

	var out []TaggedTarget
	for _, t := range q.reg.Targets() {
		if filter.Glob != "" {
			ok, err := doublestar.Match(filter.Glob, t.String())
			if err != nil {
				return nil, fmt.Errorf("matching %s: %w", t, err)
			}
			if !ok {
				continue
			}
		}

		tt, err := q.Get(t)
		if err != nil {
			out = append(out, TaggedTarget{Target: t, Err: err})
			continue
		}
		if filter.Type != "" {
			tt = filterByType(tt, filter.Type)
		}
		if filter.TaggedOnly && len(tt.Effective) == 0 {
			continue
		}
		out = append(out, tt)
	}
	return out, nil
}

// filterByType keeps the tags of type typ, preserving the own/inherited split.
func filterByType(tt TaggedTarget, typ models.WorkItemType) TaggedTarget {
	keep := func(items []models.WorkItem) []models.WorkItem {
		var out []models.WorkItem
		for _, w := range items {
			if w.Type == typ {
				out = append(out, w)
			}
		}
		return out
	}
	inherited := keep(tt.Inherited())
	own := keep(tt.Own)
	return TaggedTarget{
		Target:    tt.Target,
		Effective: append(inherited, own...),
		Own:       own,
	}
}
