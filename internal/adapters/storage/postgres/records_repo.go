package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"pet-health-records/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Create(ctx context.Context, rec records.MedicalRecord) error {
	files, err := json.Marshal(rec.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	// INSERT único: o entra la fila completa con sus archivos o no entra nada.
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medical_records (
			id, pet_id, owner_user_id,
			title, description, date,
			files,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		rec.ID,
		rec.PetID,
		rec.OwnerUserID,
		rec.Title,
		rec.Description,
		rec.Date,
		files,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (r *RecordsRepo) GetByID(ctx context.Context, id, ownerUserID string) (records.MedicalRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return records.MedicalRecord{}, records.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, pet_id, owner_user_id,
			title, description, date,
			files,
			created_at, updated_at
		FROM medical_records
		WHERE id = $1 AND owner_user_id = $2
	`, id, ownerUserID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return records.MedicalRecord{}, records.ErrNotFound
	}
	return rec, err
}

func (r *RecordsRepo) ListByPet(ctx context.Context, petID, ownerUserID string) ([]records.MedicalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id, owner_user_id,
			title, description, date,
			files,
			created_at, updated_at
		FROM medical_records
		WHERE pet_id = $1 AND owner_user_id = $2
		ORDER BY date DESC, created_at DESC
	`, petID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.MedicalRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

// Delete verifica ownership en el mismo statement: cero filas => not found.
func (r *RecordsRepo) Delete(ctx context.Context, id, ownerUserID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM medical_records
		WHERE id = $1 AND owner_user_id = $2
	`, id, ownerUserID)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func scanRecord(row rowScanner) (records.MedicalRecord, error) {
	var rec records.MedicalRecord
	var files []byte

	if err := row.Scan(
		&rec.ID,
		&rec.PetID,
		&rec.OwnerUserID,
		&rec.Title,
		&rec.Description,
		&rec.Date,
		&files,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return records.MedicalRecord{}, err
	}

	if len(files) > 0 {
		if err := json.Unmarshal(files, &rec.Files); err != nil {
			return records.MedicalRecord{}, fmt.Errorf("unmarshal files: %w", err)
		}
	}
	if rec.Files == nil {
		rec.Files = map[string]string{}
	}

	return rec, nil
}
