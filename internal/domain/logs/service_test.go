package logs

import (
	"context"
	"errors"
	"testing"
)

type testRepo struct {
	items []Log
}

func (r *testRepo) Create(ctx context.Context, l Log) error {
	r.items = append(r.items, l)
	return nil
}

func (r *testRepo) ListByPet(ctx context.Context, petID, ownerUserID string) ([]Log, error) {
	out := make([]Log, 0)
	for _, it := range r.items {
		if it.PetID == petID && it.OwnerUserID == ownerUserID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id, ownerUserID string) error {
	for i, it := range r.items {
		if it.ID == id && it.OwnerUserID == ownerUserID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestCreate_RequiresTitleOrText(t *testing.T) {
	svc := NewService(&testRepo{})

	if _, err := svc.Create(context.Background(), "p1", "u1", CreateInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty log: expected ErrInvalidInput, got %v", err)
	}

	// con solo título alcanza
	l, err := svc.Create(context.Background(), "p1", "u1", CreateInput{Title: "Vómitos"})
	if err != nil {
		t.Fatalf("title-only log: %v", err)
	}
	if l.ID == "" || l.CreatedAt.IsZero() {
		t.Errorf("log not fully populated: %+v", l)
	}

	// con solo texto también
	if _, err := svc.Create(context.Background(), "p1", "u1", CreateInput{Text: "comió normal"}); err != nil {
		t.Fatalf("text-only log: %v", err)
	}
}

func TestCreate_TrimsFields(t *testing.T) {
	svc := NewService(&testRepo{})

	l, err := svc.Create(context.Background(), "p1", "u1", CreateInput{Title: "  Paseo  ", Text: " largo "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Title != "Paseo" || l.Text != "largo" {
		t.Errorf("fields not trimmed: %+v", l)
	}
}

func TestDelete_ScopedByOwner(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	l, err := svc.Create(context.Background(), "p1", "u1", CreateInput{Title: "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), l.ID, "otro"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), l.ID, "u1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}
