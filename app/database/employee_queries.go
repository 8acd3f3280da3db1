package database

import (
	"database/sql"
	"time"

	"anchor-backoffice/app/models"
)

func GetEmployees(db *sql.DB, includeFormer bool) ([]models.Employee, error) {
	query := `SELECT id, first_name, last_name, COALESCE(email, ''), COALESCE(phone, ''),
					 date_of_birth, COALESCE(department, ''), status, created_at, updated_at
			  FROM employees WHERE deleted_at IS NULL`
	if !includeFormer {
		query += ` AND status = 'active'`
	}
	query += ` ORDER BY first_name, last_name`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone,
			&e.DateOfBirth, &e.Department, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func GetEmployeeByID(db *sql.DB, id string) (*models.Employee, error) {
	e := &models.Employee{}
	query := `SELECT id, first_name, last_name, COALESCE(email, ''), COALESCE(phone, ''),
					 date_of_birth, COALESCE(department, ''), status, created_at, updated_at
			  FROM employees WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, id).Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone,
		&e.DateOfBirth, &e.Department, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func CreateEmployee(db *sql.DB, e *models.Employee) error {
	query := `INSERT INTO employees (first_name, last_name, email, phone, date_of_birth, department, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	return db.QueryRow(query, e.FirstName, e.LastName, e.Email, e.Phone,
		e.DateOfBirth, e.Department, e.Status).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func UpdateEmployee(db *sql.DB, e *models.Employee) error {
	query := `UPDATE employees
			  SET first_name = $1, last_name = $2, email = $3, phone = $4,
				  date_of_birth = $5, department = $6, status = $7, updated_at = $8
			  WHERE id = $9 AND deleted_at IS NULL`
	res, err := db.Exec(query, e.FirstName, e.LastName, e.Email, e.Phone,
		e.DateOfBirth, e.Department, e.Status, time.Now(), e.ID)
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
