package core

import (
	"errors"
	"testing"

	"github.com/valter-silva-au/witag/pkg/models"
	"github.com/valter-silva-au/witag/pkg/workitem"
)

func sampleRegistry() *workitem.Registry {
	reg := workitem.NewRegistry()
	reg.Class("com.example.BaseTest", models.FR("77"))
	reg.Class("com.example.MyTest", models.Req("123"), models.PR("9")).
		Extends("com.example.BaseTest").
		Method("testLogin", models.Task("456")).
		Method("testUntagged")
	reg.Class("org.other.Suite")
	return reg
}

func TestQueryGet_OwnAndInherited(t *testing.T) {
	q := NewQuery(sampleRegistry())

	tt, err := q.Get(models.ClassTarget("com.example.MyTest"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tt.Effective) != 3 || len(tt.Own) != 2 {
		t.Fatalf("effective=%v own=%v", tt.Effective, tt.Own)
	}
	inherited := tt.Inherited()
	if len(inherited) != 1 || inherited[0].ID != "77" {
		t.Errorf("Inherited() = %v", inherited)
	}

	m, err := q.Get(models.MethodTarget("com.example.MyTest", "testLogin"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Effective) != 1 || len(m.Inherited()) != 0 {
		t.Errorf("method tags = %+v", m)
	}
}

func TestQueryGet_Cycle(t *testing.T) {
	reg := workitem.NewRegistry()
	reg.Class("A").Extends("A")

	if _, err := NewQuery(reg).Get(models.ClassTarget("A")); err == nil {
		t.Fatal("expected error for cycle")
	}
}

func TestQueryFind(t *testing.T) {
	q := NewQuery(sampleRegistry())

	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{"all", QueryFilter{}, []string{
			"com.example.BaseTest", "com.example.MyTest", "com.example.MyTest#testLogin",
			"com.example.MyTest#testUntagged", "org.other.Suite",
		}},
		{"tagged only", QueryFilter{TaggedOnly: true}, []string{
			"com.example.BaseTest", "com.example.MyTest", "com.example.MyTest#testLogin",
		}},
		{"glob", QueryFilter{Glob: "com.example.My*"}, []string{
			"com.example.MyTest", "com.example.MyTest#testLogin", "com.example.MyTest#testUntagged",
		}},
		{"methods", QueryFilter{Glob: "*#test*", TaggedOnly: true}, []string{"com.example.MyTest#testLogin"}},
		{"type FR", QueryFilter{Type: models.WorkItemFR, TaggedOnly: true}, []string{
			"com.example.BaseTest", "com.example.MyTest",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.Find(tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var names []string
			for _, g := range got {
				names = append(names, g.Target.String())
			}
			if len(names) != len(tt.want) {
				t.Fatalf("got %v, want %v", names, tt.want)
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("result %d = %s, want %s", i, names[i], tt.want[i])
				}
			}
		})
	}
}

func TestQueryFind_TypeFilterKeepsSplit(t *testing.T) {
	got, err := NewQuery(sampleRegistry()).Find(QueryFilter{Glob: "com.example.MyTest", Type: models.WorkItemFR})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v", got)
	}
	if len(got[0].Own) != 0 || len(got[0].Inherited()) != 1 {
		t.Errorf("own=%v inherited=%v", got[0].Own, got[0].Inherited())
	}
}

func TestQueryFind_InvalidGlob(t *testing.T) {
	if _, err := NewQuery(sampleRegistry()).Find(QueryFilter{Glob: "[a"}); err == nil {
		t.Fatal("expected error for invalid glob")
	}
}

func TestQueryFind_CycleDoesNotHideOtherTargets(t *testing.T) {
	reg := workitem.NewRegistry()
	reg.Class("Good", models.Req("1"))
	reg.Class("X").Extends("Y")
	reg.Class("Y").Extends("X")

	got, err := NewQuery(reg).Find(QueryFilter{TaggedOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d targets, want 3: %+v", len(got), got)
	}
	if got[0].Target.Class != "Good" || got[0].Err != nil || len(got[0].Effective) != 1 {
		t.Errorf("Good = %+v", got[0])
	}
	for _, tt := range got[1:] {
		if !errors.Is(tt.Err, workitem.ErrInheritanceCycle) {
			t.Errorf("%s: Err = %v, want inheritance cycle", tt.Target, tt.Err)
		}
		if len(tt.Effective) != 0 {
			t.Errorf("%s: Effective = %v, want none", tt.Target, tt.Effective)
		}
	}
}
