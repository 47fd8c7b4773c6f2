package service

import (
	"context"
	"errors"
	"testing"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCourseService_Create_DefaultsPriceToFree(t *testing.T) {
	svc := NewCourseService(newStubCourseRepo(), newStubModuleRepo(), discardLogger)

	c, err := svc.CreateCourse(context.Background(), ports.CreateCourseInput{
		Title:  " Go Basics ",
		Topics: []string{"go", " ", "concurrency "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "Go Basics" || !c.IsFree() {
		t.Fatalf("unexpected course: %+v", c)
	}
	if len(c.Topics) != 2 || c.Topics[1] != "concurrency" {
		t.Fatalf("unexpected topics: %v", c.Topics)
	}
}

func TestCourseService_Create_Validation(t *testing.T) {
	svc := NewCourseService(newStubCourseRepo(), newStubModuleRepo(), discardLogger)

	if _, err := svc.CreateCourse(context.Background(), ports.CreateCourseInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected title validation error, got %v", err)
	}
	if _, err := svc.CreateCourse(context.Background(), ports.CreateCourseInput{Title: "x", Price: int64Ptr(-1)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected price validation error, got %v", err)
	}
}

func TestCourseService_Update_Merges(t *testing.T) {
	courses := newStubCourseRepo()
	svc := NewCourseService(courses, newStubModuleRepo(), discardLogger)
	c := courses.add(0)

	updated, err := svc.UpdateCourse(context.Background(), c.ID, ports.UpdateCourseInput{Price: int64Ptr(30)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Course" || updated.Price != 30 {
		t.Fatalf("unexpected merge: %+v", updated)
	}
}

func TestCourseService_List_IncludesModuleTotals(t *testing.T) {
	courses := newStubCourseRepo()
	modules := newStubModuleRepo()
	svc := NewCourseService(courses, modules, discardLogger)
	c := courses.add(10)
	modules.add(c.ID, 1)
	modules.add(c.ID, 2)
	courses.add(0)

	page, err := svc.ListCourses(context.Background(), ports.PageRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 courses, got %d", page.Total)
	}
	for _, item := range page.Items {
		want := int64(0)
		if item.Course.ID == c.ID {
			want = 2
		}
		if item.TotalModules != want {
			t.Fatalf("course %s: want %d modules, got %d", item.Course.ID, want, item.TotalModules)
		}
	}
}
