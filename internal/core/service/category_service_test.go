package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

func newCategoryFixture() (*memStore, *CategoryService) {
	store := newMemStore()
	_, categories, _, articles, _, _ := store.repos()
	return store, NewCategoryService(categories, NewIntegrityGuard(articles), zerolog.Nop())
}

func TestCategoryService_DeleteUnreferenced(t *testing.T) {
	_, svc := newCategoryFixture()
	ctx := context.Background()

	cat, err := svc.Create(ctx, ports.CategoryInput{Name: "Sports", Description: "Games", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, cat.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryService_DeleteBlocked(t *testing.T) {
	store, svc := newCategoryFixture()
	ctx := context.Background()

	cat, _ := svc.Create(ctx, ports.CategoryInput{Name: "Politics", IsActive: true})
	store.articles[50] = domain.NewsArticle{ID: 50, CategoryID: cat.ID, CreatedByID: 1, CreatedDate: time.Now()}

	ok, err := svc.CanDelete(ctx, cat.ID)
	if err != nil || ok {
		t.Fatalf("expected canDelete=false, got %v %v", ok, err)
	}

	err = svc.Delete(ctx, cat.ID)
	var be *domain.BlockedError
	if !errors.As(err, &be) {
		t.Fatalf("expected BlockedError, got %v", err)
	}
	if be.Reason != domain.ReasonCategoryInUse || be.Resource != "category" {
		t.Fatalf("unexpected blocked error %+v", be)
	}
	if _, err := svc.Get(ctx, cat.ID); err != nil {
		t.Fatalf("blocked category must remain: %v", err)
	}
}

func TestCategoryService_DeleteMissing(t *testing.T) {
	_, svc := newCategoryFixture()
	if err := svc.Delete(context.Background(), 999); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryService_ParentReference(t *testing.T) {
	_, svc := newCategoryFixture()
	ctx := context.Background()

	missing := 77
	_, err := svc.Create(ctx, ports.CategoryInput{Name: "Child", ParentID: &missing})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields["parentCategoryId"] == "" {
		t.Fatalf("expected parentCategoryId validation error, got %v", err)
	}

	parent, _ := svc.Create(ctx, ports.CategoryInput{Name: "Parent"})
	child, err := svc.Create(ctx, ports.CategoryInput{Name: "Child", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	// Cycles are not prevented.
	if _, err := svc.Update(ctx, parent.ID, ports.CategoryInput{Name: "Parent", ParentID: &child.ID}); err != nil {
		t.Fatalf("cyclic parent should be accepted: %v", err)
	}
}

func TestCategoryService_Validation(t *testing.T) {
	_, svc := newCategoryFixture()
	long := make([]byte, domain.MaxCategoryNameLen+1)
	for i := range long {
		long[i] = 'x'
	}

	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: "  "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: string(long)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for long name, got %v", err)
	}
}

func TestCategoryService_Search(t *testing.T) {
	_, svc := newCategoryFixture()
	ctx := context.Background()
	_, _ = svc.Create(ctx, ports.CategoryInput{Name: "Technology", Description: "Gadgets"})
	_, _ = svc.Create(ctx, ports.CategoryInput{Name: "Culture", Description: "Film and music"})

	got, err := svc.List(ctx, "TECH")
	if err != nil || len(got) != 1 || got[0].Name != "Technology" {
		t.Fatalf("unexpected search result %+v (%v)", got, err)
	}
}
