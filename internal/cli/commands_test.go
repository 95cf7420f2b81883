package cli

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/witag/internal/core"
	"github.com/valter-silva-au/witag/pkg/models"
	"github.com/valter-silva-au/witag/pkg/workitem"
)

func sampleRegistry() *workitem.Registry {
	reg := workitem.NewRegistry()
	reg.Class("com.example.BaseTest", models.FR("FR-77"))
	reg.Class("com.example.MyTest",
		models.PR("PR-123", models.WithURL("http://example.com")),
		models.Req("REQ-456"),
	).Extends("com.example.BaseTest").Method("testMethod", models.Task("TASK-9"))
	reg.Class("com.example.Untagged")
	return reg
}

// withRegistry installs reg and default services for the duration of the test.
func withRegistry(t *testing.T, reg *workitem.Registry) {
	t.Helper()
	origReg, origLinker, origChecker := Registry, Linker, Checker
	t.Cleanup(func() {
		Registry, Linker, Checker = origReg, origLinker, origChecker
	})
	Registry = reg
	Linker = core.NewLinker(map[models.WorkItemType]string{models.WorkItemREQ: "https://req.example.com/{id}"})
	Checker = core.NewChecker(models.CheckConfig{})
}

func withoutInit(t *testing.T) {
	t.Helper()
	origInit := Init
	t.Cleanup(func() { Init = origInit })
	Init = nil
}

func TestListCommand(t *testing.T) {
	withoutInit(t)
	withRegistry(t, sampleRegistry())

	out, err := runCommand(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"FR-77", "PR-123", "REQ-456", "TASK-9", "https://req.example.com/REQ-456", "com.example.MyTest#testMethod", "3 target(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "com.example.Untagged") {
		t.Errorf("untagged class listed without --all:\n%s", out)
	}
}

func TestListCommand_Filters(t *testing.T) {
	withoutInit(t)
	withRegistry(t, sampleRegistry())

	out, err := runCommand(t, "list", "--type", "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "PR-123") || !strings.Contains(out, "FR-77") {
		t.Errorf("type filter output:\n%s", out)
	}

	out, err = runCommand(t, "list", "--glob", "*#*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "TASK-9") || strings.Contains(out, "FR-77") {
		t.Errorf("glob filter output:\n%s", out)
	}

	out, err = runCommand(t, "list", "--all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "com.example.Untagged") {
		t.Errorf("--all output:\n%s", out)
	}
}

func TestListCommand_CycleSkipped(t *testing.T) {
	withoutInit(t)
	reg := sampleRegistry()
	reg.Class("com.example.X").Extends("com.example.Y")
	reg.Class("com.example.Y").Extends("com.example.X")
	withRegistry(t, reg)

	out, err := runCommand(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"PR-123", "3 target(s)", "skipped com.example.X", "inheritance cycle"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListCommand_InvalidType(t *testing.T) {
	withoutInit(t)
	withRegistry(t, sampleRegistry())

	if _, err := runCommand(t, "list", "--type", "BUG"); err == nil {
		t.Fatal("expected error for invalid type")
	}
}

func TestListCommand_Empty(t *testing.T) {
	withoutInit(t)
	withRegistry(t, workitem.NewRegistry())

	out, err := runCommand(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No tagged targets found.") {
		t.Errorf("output = %q", out)
	}
}

func TestCommands_NilRegistry(t *testing.T) {
	withoutInit(t)
	withRegistry(t, nil)

	for _, args := range [][]string{{"list"}, {"show", "A"}, {"refs", "1"}, {"check"}, {"mcp", "serve"}} {
		_, err := runCommand(t, args...)
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Errorf("%v: expected not initialized error, got %v", args, err)
		}
	}
}

func TestShowCommand_Class(t *testing.T) {
	withoutInit(t)
	withRegistry(t, sampleRegistry())

	out, err := runCommand(t, "show", "com.example.MyTest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "ancestors (root first): com.example.BaseTest\n") {
		t.Errorf("missing ancestors:\n%s", out)
	}
	// Inherited work items come first.
	if strings.Index(out, "FR-77") > strings.Index(out, "PR-123") {
		t.Errorf("inherited work item not listed first:\n%s", out)
	}
	if strings.Contains(out, "TASK-9") {
		t.Errorf("method work item shown on class:\n%s", out)
	}
}

func TestShowCommand_AncestorsRootFirst(t *testing.T) {
	withoutInit(t)
	reg := workitem.NewRegistry()
	reg.Class("Root", models.FR("1"))
	reg.Class("Mid").Extends("Root")
	reg.Class("Leaf", models.Req("2")).Extends("Mid")
	withRegistry(t, reg)

	out, err := runCommand(t, "show", "Leaf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "ancestors (root first): Root, Mid\n") {
		t.Errorf("ancestor line:\n%s", out)
	}
	if strings.Contains(out, "<-") {
		t.Errorf("unexpected arrow in output:\n%s", out)
	}
}

func TestShowCommand_MethodAndUntagged(t *testing.T) {
	withoutInit(t)
	withRegistry(t, sampleRegistry())

	out, err := runCommand(t, "show", "com.example.MyTest#testMethod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "TASK-9") || strings.Contains(out, "PR-123") {
		t.Errorf("method output:\n%s", out)
	}

	out, err = runCommand(t, "show", "com.example.Untagged")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No work items.") {
		t.Errorf("untagged output:\n%s", out)
	}

	if _, err := runCommand(t, "show", "#bad"); err == nil {
		t.Error("expected error for invalid target")
	}
}

func TestRefsCommand(t *testing.T) {
	withoutInit(t)
	reg := sampleRegistry()
	reg.Class("com.example.Other").Method("testAgain", models.Req("REQ-456"))
	withRegistry(t, reg)

	out, err := runCommand(t, "refs", "REQ-456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "com.example.MyTest") || !strings.Contains(out, "com.example.Other#testAgain") {
		t.Errorf("output:\n%s", out)
	}

	out, err = runCommand(t, "refs", "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No targets reference nope.") {
		t.Errorf("output = %q", out)
	}
}

func TestCheckCommand(t *testing.T) {
	withoutInit(t)
	withRegistry(t, sampleRegistry())

	out, err := runCommand(t, "check")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No problems found.") {
		t.Errorf("output = %q", out)
	}

	reg := sampleRegistry()
	reg.Class("com.example.Broken", models.Req(""), models.Req("1", models.WithURL("nope")))
	withRegistry(t, reg)

	out, err = runCommand(t, "check")
	if err == nil || !strings.Contains(err.Error(), "1 error(s)") {
		t.Fatalf("expected check error, got %v", err)
	}
	if !strings.Contains(out, "work item id is empty") || !strings.Contains(out, "malformed url") {
		t.Errorf("output:\n%s", out)
	}
}

func TestTypesCommand(t *testing.T) {
	out, err := runCommand(t, "types")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"FR", "PR", "REQ", "TASK", "TEST", "requirement (default)", "defect"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
