package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"p9e.in/cartrade/models"
)

// SeedAdminUser creates the bootstrap admin account when the users table is
// empty. Credentials come from ADMIN_PHONE / ADMIN_PASSWORD; skipped when the
// env is not set.
func SeedAdminUser() {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	phone := os.Getenv("ADMIN_PHONE")
	password := os.Getenv("ADMIN_PASSWORD")
	if phone == "" || password == "" {
		log.Println("No ADMIN_PHONE/ADMIN_PASSWORD set, skipping admin seeding")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        "admin@cartrade.local",
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Println("Seeded bootstrap admin user")
}
