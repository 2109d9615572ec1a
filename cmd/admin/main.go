package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"
	"jitutong/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewService(db)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <create-admin|ban|unban> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-admin":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin create-admin <username> <password> [role]")
			os.Exit(1)
		}
		role := models.AdminRoleAdmin
		if len(os.Args) > 4 {
			role = os.Args[4]
		}
		if err := createAdmin(store, os.Args[2], os.Args[3], role); err != nil {
			log.Fatalf("Error creating admin: %v", err)
		}
		fmt.Printf("Admin %s created with role %s.\n", os.Args[2], role)
	case "ban":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin ban <user_id> <reason> [duration_in_hours]")
			os.Exit(1)
		}
		userID := parseID(os.Args[2])
		var hours int
		if len(os.Args) > 4 {
			hours, err = strconv.Atoi(os.Args[4])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
		}
		if err := banUser(store, userID, os.Args[3], hours); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %d has been banned.\n", userID)
	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <user_id>")
			os.Exit(1)
		}
		userID := parseID(os.Args[2])
		if err := unbanUser(store, userID); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %d has been unbanned.\n", userID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func parseID(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		fmt.Println("Invalid user ID. Please provide an integer.")
		os.Exit(1)
	}
	return uint(id)
}

func createAdmin(s storage.Storage, username, password, role string) error {
	admin := models.Admin{Username: username, Role: role}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	return s.CreateAdmin(&admin)
}

func banUser(s storage.Storage, userID uint, reason string, hours int) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Status = models.StatusBanned
	user.BanReason = &reason
	if hours > 0 {
		until := time.Now().Add(time.Duration(hours) * time.Hour)
		user.BanUntil = &until
	} else {
		user.BanUntil = nil
	}
	return s.SaveUser(user)
}

func unbanUser(s storage.Storage, userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Status = models.StatusActive
	user.BanReason = nil
	user.BanUntil = nil
	return s.SaveUser(user)
}
