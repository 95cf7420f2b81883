package models

import (
	"fmt"
	"strings"
)

// WorkItemType identifies the kind of artifact a work item refers to in an
// external requirements management system.
type WorkItemType string

const (
	WorkItemFR   WorkItemType = "FR"
	WorkItemPR   WorkItemType = "PR"
	WorkItemREQ  WorkItemType = "REQ"
	WorkItemTASK WorkItemType = "TASK"
	WorkItemTEST WorkItemType = "TEST"
)

// DefaultWorkItemType is used when a tag is declared without a type.
const DefaultWorkItemType = WorkItemREQ

var workItemDescriptions = map[WorkItemType]string{
	WorkItemFR:   "feature request",
	WorkItemPR:   "defect",
	WorkItemREQ:  "requirement",
	WorkItemTASK: "task",
	WorkItemTEST: "test case specification",
}

// AllWorkItemTypes returns every work item type in declaration order.
func AllWorkItemTypes() []WorkItemType {
	return []WorkItemType{WorkItemFR, WorkItemPR, WorkItemREQ, WorkItemTASK, WorkItemTEST}
}

// Valid reports whether t is one of the declared work item types.
func (t WorkItemType) Valid() bool {
	_, ok := workItemDescriptions[t]
	return ok
}

// Description returns a human-readable name for the artifact kind.
func (t WorkItemType) Description() string {
	return workItemDescriptions[t]
}

// ParseWorkItemType converts a string to a WorkItemType. Matching is
// case-insensitive and an empty string yields DefaultWorkItemType.
func ParseWorkItemType(s string) (WorkItemType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultWorkItemType, nil
	}
	t := WorkItemType(strings.ToUpper(s))
	if !t.Valid() {
		return "", fmt.Errorf("invalid work item type %q: must be one of FR, PR, REQ, TASK, TEST", s)
	}
	return t, nil
}

// WorkItem associates a test target with one artifact in an external
// requirements management system.
//
// ID is expected to be non-empty. That contract is documented only: nothing
// in this package rejects an empty ID, consumers that care must check it.
// An empty URL means the URL is unset.
type WorkItem struct {
	Type WorkItemType `yaml:"type" json:"type"`
	ID   string       `yaml:"id" json:"id"`
	URL  string       `yaml:"url,omitempty" json:"url,omitempty"`
}

// WorkItemOption customizes a WorkItem built by NewWorkItem.
type WorkItemOption func(*WorkItem)

// WithType sets the work item type.
func WithType(t WorkItemType) WorkItemOption {
	return func(w *WorkItem) { w.Type = t }
}

// WithURL sets the URL of the work item in the external system.
func WithURL(url string) WorkItemOption {
	return func(w *WorkItem) { w.URL = url }
}

// NewWorkItem builds a WorkItem of type REQ with no URL, then applies opts.
func NewWorkItem(id string, opts ...WorkItemOption) WorkItem {
	w := WorkItem{Type: DefaultWorkItemType, ID: id}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// FR builds a feature request tag.
func FR(id string, opts ...WorkItemOption) WorkItem {
	return NewWorkItem(id, append([]WorkItemOption{WithType(WorkItemFR)}, opts...)...)
}

// PR builds a defect tag.
func PR(id string, opts ...WorkItemOption) WorkItem {
	return NewWorkItem(id, append([]WorkItemOption{WithType(WorkItemPR)}, opts...)...)
}

// Req builds a requirement tag.
func Req(id string, opts ...WorkItemOption) WorkItem {
	return NewWorkItem(id, opts...)
}

// Task builds a task tag.
func Task(id string, opts ...WorkItemOption) WorkItem {
	return NewWorkItem(id, append([]WorkItemOption{WithType(WorkItemTASK)}, opts...)...)
}

// TestSpec builds a test case specification tag.
func TestSpec(id string, opts ...WorkItemOption) WorkItem {
	return NewWorkItem(id, append([]WorkItemOption{WithType(WorkItemTEST)}, opts...)...)
}

// HasURL reports whether the URL is set.
func (w WorkItem) HasURL() bool {
	return w.URL != ""
}

func (w WorkItem) String() string {
	if w.HasURL() {
		return fmt.Sprintf("%s:%s <%s>", w.Type, w.ID, w.URL)
	}
	return fmt.Sprintf("%s:%s", w.Type, w.ID)
}

// WorkItemList is an ordered sequence of work items attached to one target.
// Order is declaration order and repeated entries are kept.
type WorkItemList []WorkItem

// NewWorkItemList copies items into a new list.
func NewWorkItemList(items ...WorkItem) WorkItemList {
	l := make(WorkItemList, len(items))
	copy(l, items)
	return l
}

// Items returns a copy of the list contents.
func (l WorkItemList) Items() []WorkItem {
	out := make([]WorkItem, len(l))
	copy(out, l)
	return out
}

// Len returns the number of work items in the list.
func (l WorkItemList) Len() int {
	return len(l)
}

// Append returns a new list with items added after the existing entries.
// The receiver is left untouched.
func (l WorkItemList) Append(items ...WorkItem) WorkItemList {
	out := make(WorkItemList, 0, len(l)+len(items))
	out = append(out, l...)
	return append(out, items...)
}
