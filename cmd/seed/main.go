package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mechhub/internal/config"
	"mechhub/internal/db"
	"mechhub/internal/model"
	"mechhub/internal/repository"
)

const seedPassword = "password123"

type seedMechanic struct {
	email    string
	fullName string
	phone    string
	skills   string
	city     string
	pincode  string
	address  string
	rate     string
}

var seedMechanics = []seedMechanic{
	{
		email:    "ravi.mechanic@example.com",
		fullName: "Ravi Kumar",
		phone:    "+91-9000000001",
		skills:   "engine repair, oil change, brake service",
		city:     "Bengaluru",
		pincode:  "560001",
		address:  "12 MG Road",
		rate:     "450.00",
	},
	{
		email:    "sana.mechanic@example.com",
		fullName: "Sana Sheikh",
		phone:    "+91-9000000002",
		skills:   "electrical diagnostics, battery replacement",
		city:     "Bengaluru",
		pincode:  "560034",
		address:  "4 Koramangala 5th Block",
		rate:     "600.00",
	},
	{
		email:    "joseph.mechanic@example.com",
		fullName: "Joseph Mathew",
		phone:    "+91-9000000003",
		skills:   "transmission, clutch, suspension",
		city:     "Kochi",
		pincode:  "682001",
		address:  "7 Marine Drive",
		rate:     "500.00",
	},
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.MechanicProfile{},
		&model.Booking{},
		&model.Notification{},
		&model.Review{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	mechanicRepo := repository.NewMechanicRepository(gormDB)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	// Admin account
	if err := seedUser(ctx, userRepo, &model.User{
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		FullName:     "Platform Admin",
		Phone:        "+91-9000000000",
		Role:         model.RoleAdmin,
		Active:       true,
	}); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	// Demo customer
	if err := seedUser(ctx, userRepo, &model.User{
		Email:        "asha.customer@example.com",
		PasswordHash: string(hash),
		FullName:     "Asha Verma",
		Phone:        "+91-9000000010",
		Role:         model.RoleCustomer,
		Active:       true,
	}); err != nil {
		log.Fatalf("Failed to seed customer: %v", err)
	}

	// Demo mechanics, pre-verified so searches return results right away
	seeded := 0
	for _, m := range seedMechanics {
		user := &model.User{
			Email:        m.email,
			PasswordHash: string(hash),
			FullName:     m.fullName,
			Phone:        m.phone,
			Role:         model.RoleMechanic,
			Active:       true,
		}
		if err := seedUser(ctx, userRepo, user); err != nil {
			log.Fatalf("Failed to seed mechanic user %s: %v", m.email, err)
		}

		if _, err := mechanicRepo.FindByUserID(ctx, user.ID); err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check profile for %s: %v", m.email, err)
		}

		rate, err := decimal.NewFromString(m.rate)
		if err != nil {
			log.Fatalf("Bad seed rate for %s: %v", m.email, err)
		}
		profile := &model.MechanicProfile{
			UserID:      user.ID,
			Skills:      m.skills,
			City:        m.city,
			Pincode:     m.pincode,
			Address:     m.address,
			HourlyRate:  rate,
			IsAvailable: true,
			IsVerified:  true,
		}
		if err := mechanicRepo.Create(ctx, profile); err != nil {
			log.Fatalf("Failed to seed profile for %s: %v", m.email, err)
		}
		seeded++
	}

	log.Printf("Seed complete: %d mechanic profiles created", seeded)
	log.Printf("All seed accounts use password %q", seedPassword)
}

// seedUser creates the user if the email is not taken. The caller's struct is
// updated with the stored record either way.
func seedUser(ctx context.Context, repo repository.UserRepository, user *model.User) error {
	existing, err := repo.FindByEmail(ctx, user.Email)
	if err == nil {
		*user = *existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return repo.Create(ctx, user)
}
