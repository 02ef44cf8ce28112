package postgres

import (
	"context"
	"database/sql"

	"pet-health-records/internal/domain/logs"
)

type LogsRepo struct {
	db *sql.DB
}

func NewLogsRepo(db *sql.DB) *LogsRepo {
	return &LogsRepo{db: db}
}

func (r *LogsRepo) Create(ctx context.Context, l logs.Log) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_logs (
			id, pet_id, owner_user_id,
			title, text,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		l.ID,
		l.PetID,
		l.OwnerUserID,
		l.Title,
		l.Text,
		l.CreatedAt,
	)
	return err
}

func (r *LogsRepo) ListByPet(ctx context.Context, petID, ownerUserID string) ([]logs.Log, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id, owner_user_id,
			title, text,
			created_at
		FROM pet_logs
		WHERE pet_id = $1 AND owner_user_id = $2
		ORDER BY created_at DESC
	`, petID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]logs.Log, 0)
	for rows.Next() {
		var l logs.Log
		if err := rows.Scan(
			&l.ID,
			&l.PetID,
			&l.OwnerUserID,
			&l.Title,
			&l.Text,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *LogsRepo) Delete(ctx context.Context, id, ownerUserID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM pet_logs
		WHERE id = $1 AND owner_user_id = $2
	`, id, ownerUserID)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return logs.ErrNotFound
	}
	return nil
}
