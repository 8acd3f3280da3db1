package database

import (
	"database/sql"
	"log"

	"anchor-backoffice/app/models"
)

// LogAudit appends an audit entry. Audit failures are logged, never allowed
// to fail the action they describe.
func LogAudit(db *sql.DB, user *models.User, action, entityType, entityID, detail string) {
	userID, email := "", ""
	if user != nil {
		userID, email = user.ID, user.Email
	}
	_, err := db.Exec(`INSERT INTO audit_logs (user_id, user_email, action, entity_type, entity_id, detail)
					   VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, $6)`,
		userID, email, action, entityType, entityID, detail)
	if err != nil {
		log.Printf("Failed to write audit log (%s %s/%s): %v", action, entityType, entityID, err)
	}
}

func GetAuditLogs(db *sql.DB, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `SELECT id, COALESCE(user_id::text, ''), COALESCE(user_email, ''), action,
					 COALESCE(entity_type, ''), COALESCE(entity_id, ''), COALESCE(detail, ''), created_at
			  FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var a models.AuditLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserEmail, &a.Action,
			&a.EntityType, &a.EntityID, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}
