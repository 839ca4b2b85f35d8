package tools

import (
	"context"
	"errors"
	"testing"
)

func stubTool(name string, category ToolCategory) *Tool {
	return &Tool{
		Name:        name,
		Description: "a stub",
		Category:    category,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return "{}", nil
		},
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if reg.Count() != 0 {
		t.Errorf("new registry should be empty, got %d tools", reg.Count())
	}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(stubTool("list_active_courses", CategoryCourses)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := reg.Get("list_active_courses")
	if got == nil {
		t.Fatal("Get returned nil for registered tool")
	}
	if got.Name != "list_active_courses" {
		t.Errorf("got name %q, want %q", got.Name, "list_active_courses")
	}
	if !reg.Has("list_active_courses") {
		t.Error("Has should report the registered tool")
	}
	if reg.Has("nope") {
		t.Error("Has should not report an unregistered tool")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(stubTool("dupe", CategoryCourses)); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	err := reg.Register(stubTool("dupe", CategoryCourses))
	if !errors.Is(err, ErrToolAlreadyRegistered) {
		t.Errorf("expected ErrToolAlreadyRegistered, got %v", err)
	}
}

func TestRegisterInvalid(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(&Tool{Name: ""}); !errors.Is(err, ErrToolNameEmpty) {
		t.Errorf("expected ErrToolNameEmpty, got %v", err)
	}
	if err := reg.Register(&Tool{Name: "no-exec"}); !errors.Is(err, ErrToolExecuteNil) {
		t.Errorf("expected ErrToolExecuteNil, got %v", err)
	}
}

func TestAllSortedByName(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zebra", "alpha", "middle"} {
		if err := reg.Register(stubTool(name, CategorySummary)); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	all := reg.All()
	want := []string{"alpha", "middle", "zebra"}
	for i, name := range want {
		if all[i].Name != name {
			t.Errorf("All()[%d] = %q, want %q", i, all[i].Name, name)
		}
	}
}

func TestGetByCategory(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubTool("b", CategoryAssignments))
	reg.MustRegister(stubTool("a", CategoryAssignments))
	reg.MustRegister(stubTool("c", CategoryCourses))

	got := reg.GetByCategory(CategoryAssignments)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Errorf("GetByCategory = %v", got)
	}
}
