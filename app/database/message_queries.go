package database

import (
	"database/sql"
	"time"

	"anchor-backoffice/app/models"
)

func CreateMessage(db *sql.DB, m *models.Message) error {
	query := `INSERT INTO messages (employee_id, phone, body, status)
			  VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return db.QueryRow(query, m.EmployeeID, m.Phone, m.Body, m.Status).Scan(&m.ID, &m.CreatedAt)
}

func GetMessages(db *sql.DB, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT id, employee_id, phone, body, status, sent_at, created_at
			  FROM messages ORDER BY created_at DESC LIMIT $1`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.Phone, &m.Body, &m.Status, &m.SentAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func MarkMessageStatus(db *sql.DB, id string, status models.MessageStatus) error {
	var sentAt *time.Time
	if status == models.MessageSent {
		now := time.Now()
		sentAt = &now
	}
	res, err := db.Exec(`UPDATE messages SET status = $1, sent_at = COALESCE($2, sent_at) WHERE id = $3`,
		status, sentAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
