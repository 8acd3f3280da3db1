package database

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"

	"anchor-backoffice/app/models"
)

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE email = $1 AND is_active = true`

	err := db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE id = $1 AND is_active = true`

	err := db.QueryRow(query, userID).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserRoles(db *sql.DB, userID string) ([]*models.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1
	`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}
	return roles, nil
}

// CreateUser inserts a user with a hashed password and returns the new id.
func CreateUser(db *sql.DB, email, password, firstName, lastName string) (string, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return "", err
	}

	var id string
	query := `INSERT INTO users (email, password, first_name, last_name, is_active)
			  VALUES ($1, $2, $3, $4, true) RETURNING id`
	err = db.QueryRow(query, email, hashed, firstName, lastName).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func UpdateUserPassword(db *sql.DB, userID, newPassword string) error {
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`,
		hashed, time.Now(), userID)
	return err
}

// AssignRole links a user to a role by role name, creating the role if needed.
func AssignRole(db *sql.DB, userID, roleName string) error {
	var roleID string
	err := db.QueryRow(`SELECT id FROM roles WHERE name = $1`, roleName).Scan(&roleID)
	if err == sql.ErrNoRows {
		err = db.QueryRow(`INSERT INTO roles (name) VALUES ($1) RETURNING id`, roleName).Scan(&roleID)
	}
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
					  ON CONFLICT DO NOTHING`, userID, roleID)
	return err
}
