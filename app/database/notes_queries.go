package database

import (
	"database/sql"
	"time"

	"anchor-backoffice/app/models"
)

// GetLatestShiftNotes returns the most recent note per shift for shifts
// dated within [start, end], keyed by shift id.
func GetLatestShiftNotes(db *sql.DB, start, end time.Time) (map[string]string, error) {
	query := `SELECT DISTINCT ON (n.entity_id) n.entity_id, n.note
			  FROM recon_notes n
			  JOIN shifts s ON s.id::text = n.entity_id
			  WHERE n.entity_type = 'shift' AND s.date >= $1 AND s.date <= $2
			  ORDER BY n.entity_id, n.created_at DESC`
	rows, err := db.Query(query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make(map[string]string)
	for rows.Next() {
		var id, note string
		if err := rows.Scan(&id, &note); err != nil {
			return nil, err
		}
		notes[id] = note
	}
	return notes, rows.Err()
}

func CreateReconNote(db *sql.DB, n *models.ReconNote) error {
	query := `INSERT INTO recon_notes (entity_type, entity_id, note, created_by)
			  VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return db.QueryRow(query, n.EntityType, n.EntityID, n.Note, n.CreatedBy).Scan(&n.ID, &n.CreatedAt)
}

func GetNotesForEntity(db *sql.DB, entityType, entityID string) ([]models.ReconNote, error) {
	query := `SELECT id, entity_type, entity_id, note, COALESCE(created_by::text, ''), created_at
			  FROM recon_notes
			  WHERE entity_type = $1 AND entity_id = $2
			  ORDER BY created_at DESC`
	rows, err := db.Query(query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.ReconNote
	for rows.Next() {
		var n models.ReconNote
		if err := rows.Scan(&n.ID, &n.EntityType, &n.EntityID, &n.Note, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
