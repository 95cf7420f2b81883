package models

import (
	"fmt"
	"strings"
)

// TargetKind distinguishes test classes from test methods.
type TargetKind string

const (
	TargetClass  TargetKind = "class"
	TargetMethod TargetKind = "method"
)

// methodSeparator joins a class name and a method name in a target string.
const methodSeparator = "#"

// Target identifies a test class or a test method a work item can be
// attached to.
type Target struct {
	Kind   TargetKind `yaml:"kind" json:"kind"`
	Class  string     `yaml:"class" json:"class"`
	Method string     `yaml:"method,omitempty" json:"method,omitempty"`
}

// ClassTarget returns the target for a test class.
func ClassTarget(class string) Target {
	return Target{Kind: TargetClass, Class: class}
}

// MethodTarget returns the target for a test method of class.
func MethodTarget(class, method string) Target {
	return Target{Kind: TargetMethod, Class: class, Method: method}
}

// IsMethod reports whether the target is a test method.
func (t Target) IsMethod() bool {
	return t.Kind == TargetMethod
}

// String renders the target as "Class" or "Class#method".
func (t Target) String() string {
	if t.IsMethod() {
		return t.Class + methodSeparator + t.Method
	}
	return t.Class
}

// ParseTarget parses the form produced by Target.String.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	class, method, found := strings.Cut(s, methodSeparator)
	if class == "" {
		return Target{}, fmt.Errorf("invalid target %q: class name must not be empty", s)
	}
	if !found {
		return ClassTarget(class), nil
	}
	if method == "" {
		return Target{}, fmt.Errorf("invalid target %q: method name must not be empty", s)
	}
	return MethodTarget(class, method), nil
}
