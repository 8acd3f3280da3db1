package database

import (
	"database/sql"
	"time"

	"anchor-backoffice/app/models"
)

const receiptColumns = `id, tx_date, details, amount_in, amount_out, vendor_name, category,
						status, rule_id, created_at, updated_at`

func scanReceipt(row interface{ Scan(...interface{}) error }) (models.ReceiptTransaction, error) {
	var r models.ReceiptTransaction
	err := row.Scan(&r.ID, &r.TxDate, &r.Details, &r.AmountIn, &r.AmountOut,
		&r.VendorName, &r.Category, &r.Status, &r.RuleID, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func GetReceipts(db *sql.DB, start, end time.Time, status string) ([]models.ReceiptTransaction, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipt_transactions
			  WHERE tx_date >= $1 AND tx_date <= $2`
	args := []interface{}{start, end}
	if status != "" {
		query += ` AND status = $3`
		args = append(args, status)
	}
	query += ` ORDER BY tx_date, created_at`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []models.ReceiptTransaction
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// GetClassifiableReceipts returns receipts the rule engine may touch:
// anything not classified by hand.
func GetClassifiableReceipts(db *sql.DB) ([]models.ReceiptTransaction, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipt_transactions
			  WHERE status != 'manual'
			  ORDER BY tx_date, created_at`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []models.ReceiptTransaction
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func CreateReceipt(db *sql.DB, r *models.ReceiptTransaction) error {
	query := `INSERT INTO receipt_transactions (tx_date, details, amount_in, amount_out, vendor_name, category, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	return db.QueryRow(query, r.TxDate, r.Details, r.AmountIn, r.AmountOut,
		r.VendorName, r.Category, r.Status).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// ApplyReceiptClassification records a rule engine or manual outcome.
func ApplyReceiptClassification(db *sql.DB, receiptID string, vendor, category *string,
	status models.ReceiptStatus, ruleID *string) error {

	res, err := db.Exec(`UPDATE receipt_transactions
						 SET vendor_name = COALESCE($1, vendor_name),
							 category = COALESCE($2, category),
							 status = $3, rule_id = $4, updated_at = $5
						 WHERE id = $6`,
		vendor, category, status, ruleID, time.Now(), receiptID)
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

func GetActiveReceiptRules(db *sql.DB) ([]models.ReceiptRule, error) {
	query := `SELECT id, name, match_text, direction, set_vendor, set_category, priority, is_active, created_at, updated_at
			  FROM receipt_rules WHERE is_active = true
			  ORDER BY priority DESC, name`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.ReceiptRule
	for rows.Next() {
		var r models.ReceiptRule
		if err := rows.Scan(&r.ID, &r.Name, &r.MatchText, &r.Direction, &r.SetVendor,
			&r.SetCategory, &r.Priority, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func CreateReceiptRule(db *sql.DB, r *models.ReceiptRule) error {
	query := `INSERT INTO receipt_rules (name, match_text, direction, set_vendor, set_category, priority, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	return db.QueryRow(query, r.Name, r.MatchText, r.Direction, r.SetVendor,
		r.SetCategory, r.Priority, r.IsActive).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}
