package core

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/valter-silva-au/witag/pkg/models"
	"github.com/valter-silva-au/witag/pkg/workitem"
)

// Severity ranks a check finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one problem reported by a Checker.
type Finding struct {
	Severity Severity
	Target   models.Target
	Item     *models.WorkItem
	Message  string
}

func (f Finding) String() string {
	if f.Item != nil {
		return fmt.Sprintf("%s: %s: %s: %s", f.Severity, f.Target, f.Item, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Target, f.Message)
}

// Checker enforces the contracts that declarations leave to consumers.
type Checker interface {
	Check(reg *workitem.Registry) []Finding
}

type registryChecker struct {
	cfg models.CheckConfig
}

// NewChecker creates a Checker.
func NewChecker(cfg models.CheckConfig) Checker {
	return &registryChecker{cfg: cfg}
}

// Check inspects the own tags of every target and the class hierarchy.
// Findings follow target order.
func (c *registryChecker) Check(reg *workitem.Registry) []Finding {
	declared := make(map[string]bool)
	for _, t := range reg.Targets() {
		if !t.IsMethod() {
			declared[t.Class] = true
		}
	}

	var findings []Finding
	for _, t := range reg.Targets() {
		if !t.IsMethod() {
			findings = append(findings, c.checkHierarchy(reg, t, declared)...)
		}
		findings = append(findings, c.checkTags(t, reg.OwnTags(t))...)
	}
	return findings
}

func (c *registryChecker) checkHierarchy(reg *workitem.Registry, t models.Target, declared map[string]bool) []Finding {
	var findings []Finding
	if _, err := reg.Ancestors(t.Class); errors.Is(err, workitem.ErrInheritanceCycle) {
		findings = append(findings, Finding{Severity: SeverityError, Target: t, Message: err.Error()})
	}
	for _, p := range reg.Parents(t.Class) {
		if !declared[p] {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Target:   t,
				Message:  fmt.Sprintf("parent class %s is not declared", p),
			})
		}
	}
	return findings
}

func (c *registryChecker) checkTags(t models.Target, tags []models.WorkItem) []Finding {
	var findings []Finding
	seen := make(map[models.WorkItem]bool, len(tags))

	for i := range tags {
		item := tags[i]
		if item.ID == "" {
			findings = append(findings, Finding{Severity: SeverityError, Target: t, Item: &item, Message: "work item id is empty"})
		}
		if item.HasURL() {
			if u, err := url.Parse(item.URL); err != nil || u.Scheme == "" || u.Host == "" {
				findings = append(findings, Finding{Severity: SeverityWarning, Target: t, Item: &item, Message: fmt.Sprintf("malformed url %q", item.URL)})
			}
		} else if c.cfg.RequireURL {
			findings = append(findings, Finding{Severity: SeverityWarning, Target: t, Item: &item, Message: "work item has no url"})
		}
		if seen[item] {
			findings = append(findings, Finding{Severity: SeverityInfo, Target: t, Item: &item, Message: "work item declared more than once"})
		}
		seen[item] = true
	}
	return findings
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
