package records

import "context"

// Repository persiste registros médicos con scoping estricto (pet, owner).
// List/Get/Delete verifican ownership en la consulta, no en la UI.
type Repository interface {
	Create(ctx context.Context, rec MedicalRecord) error
	GetByID(ctx context.Context, id, ownerUserID string) (MedicalRecord, error)
	ListByPet(ctx context.Context, petID, ownerUserID string) ([]MedicalRecord, error)
	Delete(ctx context.Context, id, ownerUserID string) error
}
