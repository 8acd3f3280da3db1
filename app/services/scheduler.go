package services

import (
	"database/sql"
	"log"
	"time"

	"anchor-backoffice/app/database"
)

// Sessions still open this long after clock-in are assumed abandoned.
const maxSessionLength = 16 * time.Hour

// StartScheduler starts the background task scheduler
func StartScheduler(db *sql.DB) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Trigger at 4:05 AM, after close of business
			if now.Hour() == 4 && now.Minute() == 5 {
				log.Println("Triggering scheduled tasks [04:05]...")

				if err := AutoCloseStaleSessions(db); err != nil {
					log.Printf("Error auto-closing stale sessions: %v", err)
				}
			}
		}
	}()
}

// AutoCloseStaleSessions closes clock sessions left open past the maximum
// session length, marking them auto_closed so payroll review can flag them.
// The close time is the linked shift's scheduled end when one is known, and
// otherwise clock-in + max length rather than "now", so a forgotten clock-out
// does not accrue a day of phantom hours.
func AutoCloseStaleSessions(db *sql.DB) error {
	cutoff := time.Now().Add(-maxSessionLength)
	sessions, err := database.GetStaleOpenSessions(db, cutoff)
	if err != nil {
		return err
	}

	closed := 0
	for _, s := range sessions {
		closeAt := s.ClockIn.Add(maxSessionLength)
		if s.LinkedShiftID != nil {
			if shift, err := database.GetShiftByID(db, *s.LinkedShiftID); err == nil {
				if end, err := scheduledEnd(shift.Date, shift.EndTime, shift.IsOvernight); err == nil && end.After(s.ClockIn) && end.Before(closeAt) {
					closeAt = end
				}
			}
		}
		if err := database.CloseClockSession(db, s.ID, closeAt, true); err != nil {
			log.Printf("Failed to auto-close session %s: %v", s.ID, err)
			continue
		}
		closed++
	}
	if closed > 0 {
		log.Printf("Auto-closed %d stale clock session(s)", closed)
	}
	return nil
}

// scheduledEnd converts a shift's wall-clock end into an absolute time on the
// shift's date, rolling overnight shifts into the next day.
func scheduledEnd(date time.Time, endTime string, overnight bool) (time.Time, error) {
	t, err := time.Parse("15:04", endTime)
	if err != nil {
		return time.Time{}, err
	}
	end := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
	if overnight {
		end = end.AddDate(0, 0, 1)
	}
	return end, nil
}
