package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-health-records/internal/domain/reminders"
)

type reminderRepo struct {
	mu   sync.RWMutex
	byID map[string]reminders.Reminder
}

func NewReminderRepo() reminders.Repository {
	return &reminderRepo{
		byID: make(map[string]reminders.Reminder),
	}
}

func (r *reminderRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rem.ID == "" {
		return errors.New("reminder id required")
	}
	if _, exists := r.byID[rem.ID]; exists {
		return errors.New("reminder already exists")
	}

	r.byID[rem.ID] = rem
	return nil
}

func (r *reminderRepo) ListByPet(ctx context.Context, petID, ownerUserID string) ([]reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reminders.Reminder, 0)
	for _, rem := range r.byID {
		if rem.PetID != petID || rem.OwnerUserID != ownerUserID {
			continue
		}
		out = append(out, rem)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})

	return out, nil
}
