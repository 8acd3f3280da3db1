package main

import (
	"database/sql"
	"log"
	"os"

	"anchor-backoffice/app/config"
	"anchor-backoffice/app/database"
)

// Runs the schema migrations standalone and seeds the first admin login,
// for fresh environments where the server has never started.
func main() {
	log.Println("Starting migration...")

	config.Init()
	db := config.GetDB()
	if db == nil {
		log.Fatal("Failed to get database instance")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}
	log.Println("Migrations completed successfully")

	seedAdmin(db)
}

func seedAdmin(db *sql.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	if existing, err := database.GetUserByEmail(db, email); err == nil && existing != nil {
		log.Printf("Admin user %s already exists, skipping seed", email)
		return
	}

	userID, err := database.CreateUser(db, email, password, "Admin", "User")
	if err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	if err := database.AssignRole(db, userID, "admin"); err != nil {
		log.Fatal("Failed to assign admin role:", err)
	}
	log.Printf("Seeded admin user %s", email)
}
