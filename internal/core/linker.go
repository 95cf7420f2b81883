package core

import (
	"net/url"
	"strings"

	"github.com/valter-silva-au/witag/pkg/models"
)

// Linker renders the external URL of a work item.
type Linker interface {
	Link(item models.WorkItem) string
}

type templateLinker struct {
	templates map[models.WorkItemType]string
}

// NewLinker creates a Linker that falls back to the given per-type templates
// for work items without a URL of their own.
func NewLinker(templates map[models.WorkItemType]string) Linker {
	return &templateLinker{templates: templates}
}

// Link returns the item's own URL when set, otherwise the expanded template
// for its type, otherwise "". The item is never modified.
func (l *templateLinker) Link(item models.WorkItem) string {
	if item.HasURL() {
		return item.URL
	}
	tmpl, ok := l.templates[item.Type]
	if !ok || tmpl == "" || item.ID == "" {
		return ""
	}
	r := strings.NewReplacer(
		"{id}", url.PathEscape(item.ID),
		"{type}", string(item.Type),
	)
	return r.Replace(tmpl)
}
