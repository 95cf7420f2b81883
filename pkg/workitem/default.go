package workitem

import "github.com/valter-silva-au/witag/pkg/models"

// Default is the process-wide registry used by the package-level helpers.
// Test packages typically declare their tags on it from init functions.
var Default = NewRegistry()

// Class declares a test class on Default.
func Class(name string, tags ...models.WorkItem) *ClassDecl {
	return Default.Class(name, tags...)
}

// Type declares the Go type of v as a test class on Default.
func Type(v any, tags ...models.WorkItem) *ClassDecl {
	return Default.Type(v, tags...)
}

// Tags returns the effective tags of target from Default.
func Tags(target models.Target) ([]models.WorkItem, error) {
	return Default.Tags(target)
}

// OwnTags returns the tags declared directly on target in Default.
func OwnTags(target models.Target) []models.WorkItem {
	return Default.OwnTags(target)
}
