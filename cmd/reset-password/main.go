package main

import (
	"flag"
	"log"

	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/pkg/database"

	"github.com/joho/godotenv"
)

// Operator tool: force-reset a user's password without going through the
// email token flow.
func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new password (min 8 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: reset-password -email <email> -password <new password>")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("User %s not found: %v", *email, err)
	}

	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Model(&user).Update("password", user.Password).Error; err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	log.Printf("Password for %s has been reset", *email)
}
