package logs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("log not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title string
	Text  string
}

func (s *Service) Create(ctx context.Context, petID, ownerUserID string, in CreateInput) (Log, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return Log{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Text) == "" {
		return Log{}, ErrInvalidInput
	}

	l := Log{
		ID:          uuid.NewString(),
		PetID:       petID,
		OwnerUserID: ownerUserID,
		Title:       strings.TrimSpace(in.Title),
		Text:        strings.TrimSpace(in.Text),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Log{}, err
	}
	return l, nil
}

// ListByPet devuelve logs ordenados por created_at descendente.
func (s *Service) ListByPet(ctx context.Context, petID, ownerUserID string) ([]Log, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPet(ctx, petID, ownerUserID)
}

func (s *Service) Delete(ctx context.Context, id, ownerUserID string) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(ownerUserID) == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id, ownerUserID)
}
