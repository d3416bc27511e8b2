// Command seed provisions a fresh clinic database: the default weekly
// availability and an initial practitioner account.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/docsched/clinic-booking-api/internal/models"
	"github.com/docsched/clinic-booking-api/internal/repository"
	"github.com/docsched/clinic-booking-api/pkg/config"
	"github.com/docsched/clinic-booking-api/pkg/database"
)

func main() {
	var (
		email    string
		password string
		fullName string
	)
	flag.StringVar(&email, "email", "doctor@clinic.example", "practitioner email")
	flag.StringVar(&password, "password", "changeme123", "initial password")
	flag.StringVar(&fullName, "name", "Dr. Practitioner", "practitioner display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	availabilityRepo := repository.NewAvailabilityRepository(db)
	for _, day := range models.DayNames {
		weekday := day != "Saturday" && day != "Sunday"
		d := &models.DayAvailability{
			Day:          day,
			Enabled:      weekday,
			SlotDuration: 30,
		}
		if weekday {
			d.Shifts = []models.Shift{{Start: "09:00", End: "17:00"}}
		} else {
			d.Shifts = []models.Shift{}
		}
		if err := availabilityRepo.Upsert(ctx, d); err != nil {
			log.Fatalf("failed to seed availability for %s: %v", day, err)
		}
	}
	log.Println("seeded weekly availability (Mon-Fri 09:00-17:00, 30 minute slots)")

	userRepo := repository.NewUserRepository(db)
	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		log.Printf("practitioner account %s already exists, skipping", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         models.RolePractitioner,
		Active:       true,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("failed to create practitioner account: %v", err)
	}
	log.Printf("created practitioner account %s", email)
}
