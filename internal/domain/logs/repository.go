package logs

import "context"

type Repository interface {
	Create(ctx context.Context, l Log) error
	ListByPet(ctx context.Context, petID, ownerUserID string) ([]Log, error)
	Delete(ctx context.Context, id, ownerUserID string) error
}
