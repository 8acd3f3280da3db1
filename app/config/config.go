package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB      *sql.DB
	SMTP    SMTPConfig
	Payroll PayrollConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// PayrollConfig carries the business-level payroll settings. Timezone is the
// single civil timezone all shift wall-clock times are anchored to.
type PayrollConfig struct {
	Timezone *time.Location
	// EarningsAlertThreshold is the per-employee monthly pay above which the
	// manager gets a notification email (HMRC reporting heuristic).
	EarningsAlertThreshold float64
	ManagerEmail           string
}

var AppConfig *Config

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s=%q, using %d", key, os.Getenv(key), fallback)
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Invalid number for %s=%q, using %v", key, os.Getenv(key), fallback)
	}
	return fallback
}

// Init loads the environment, opens the database pool and builds AppConfig.
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=30",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", ""),
		envOr("DB_NAME", "anchor"),
		envOr("DB_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}

	tzName := envOr("BUSINESS_TIMEZONE", "Europe/London")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: failed to load timezone %s, falling back to UTC: %v", tzName, err)
		loc = time.UTC
	}

	AppConfig = &Config{
		DB: db,
		SMTP: SMTPConfig{
			Host:     envOr("SMTP_HOST", "smtp.gmail.com"),
			Port:     envIntOr("SMTP_PORT", 587),
			Username: envOr("SMTP_USERNAME", ""),
			Password: envOr("SMTP_PASSWORD", ""),
			From:     envOr("SMTP_FROM", "payroll@the-anchor.pub"),
		},
		Payroll: PayrollConfig{
			Timezone:               loc,
			EarningsAlertThreshold: envFloatOr("EARNINGS_ALERT_THRESHOLD", 833),
			ManagerEmail:           envOr("MANAGER_EMAIL", "manager@the-anchor.pub"),
		},
	}
	log.Println("Database connected successfully")
	log.Printf("Business timezone: %s", loc.String())
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
