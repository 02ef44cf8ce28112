package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-health-records/internal/domain/logs"
)

type logRepo struct {
	mu   sync.RWMutex
	byID map[string]logs.Log
}

func NewLogRepo() logs.Repository {
	return &logRepo{
		byID: make(map[string]logs.Log),
	}
}

func (r *logRepo) Create(ctx context.Context, l logs.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return errors.New("log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("log already exists")
	}

	r.byID[l.ID] = l
	return nil
}

func (r *logRepo) ListByPet(ctx context.Context, petID, ownerUserID string) ([]logs.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]logs.Log, 0)
	for _, l := range r.byID {
		if l.PetID != petID || l.OwnerUserID != ownerUserID {
			continue
		}
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *logRepo) Delete(ctx context.Context, id, ownerUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byID[id]
	if !ok || l.OwnerUserID != ownerUserID {
		return logs.ErrNotFound
	}

	delete(r.byID, id)
	return nil
}
