package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-health-records/internal/domain/records"
)

type recordRepo struct {
	mu   sync.RWMutex
	byID map[string]records.MedicalRecord
}

func NewRecordRepo() records.Repository {
	return &recordRepo{
		byID: make(map[string]records.MedicalRecord),
	}
}

func (r *recordRepo) Create(ctx context.Context, rec records.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("record already exists")
	}

	// copia defensiva del map de archivos: inmutable post-create
	files := make(map[string]string, len(rec.Files))
	for k, v := range rec.Files {
		files[k] = v
	}
	rec.Files = files

	r.byID[rec.ID] = rec
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id, ownerUserID string) (records.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok || rec.OwnerUserID != ownerUserID {
		return records.MedicalRecord{}, records.ErrNotFound
	}
	return rec, nil
}

func (r *recordRepo) ListByPet(ctx context.Context, petID, ownerUserID string) ([]records.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.MedicalRecord, 0)
	for _, rec := range r.byID {
		if rec.PetID != petID || rec.OwnerUserID != ownerUserID {
			continue
		}
		out = append(out, rec)
	}

	// fecha desc, created_at desc como desempate
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *recordRepo) Delete(ctx context.Context, id, ownerUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.OwnerUserID != ownerUserID {
		return records.ErrNotFound
	}

	delete(r.byID, id)
	return nil
}
