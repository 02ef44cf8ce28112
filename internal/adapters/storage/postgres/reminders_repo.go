package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pet-health-records/internal/domain/reminders"
)

type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

func (r *RemindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	rec, err := json.Marshal(rem.Recurrence)
	if err != nil {
		return fmt.Errorf("marshal recurrence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reminders (
			id, pet_id, owner_user_id,
			title, description,
			due_date, due_time, type, completed,
			recurrence
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rem.ID,
		rem.PetID,
		rem.OwnerUserID,
		rem.Title,
		rem.Description,
		rem.DueDate,
		rem.DueTime,
		string(rem.Type),
		rem.Completed,
		rec,
	)
	return err
}

func (r *RemindersRepo) ListByPet(ctx context.Context, petID, ownerUserID string) ([]reminders.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id, owner_user_id,
			title, description,
			due_date, due_time, type, completed,
			recurrence
		FROM reminders
		WHERE pet_id = $1 AND owner_user_id = $2
		ORDER BY due_date ASC
	`, petID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reminders.Reminder, 0)
	for rows.Next() {
		var rem reminders.Reminder
		var typ string
		var rec []byte

		if err := rows.Scan(
			&rem.ID,
			&rem.PetID,
			&rem.OwnerUserID,
			&rem.Title,
			&rem.Description,
			&rem.DueDate,
			&rem.DueTime,
			&typ,
			&rem.Completed,
			&rec,
		); err != nil {
			return nil, err
		}

		rem.Type = reminders.Type(typ)
		if len(rec) > 0 {
			if err := json.Unmarshal(rec, &rem.Recurrence); err != nil {
				return nil, fmt.Errorf("unmarshal recurrence: %w", err)
			}
		}

		out = append(out, rem)
	}

	return out, rows.Err()
}
