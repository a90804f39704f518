package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"advocate_diary/config"
	"advocate_diary/db"
	"advocate_diary/logger"
	"advocate_diary/models"
	"advocate_diary/services"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := logger.Initialize(cfg.Environment, "warn"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label + ": ")
		value, _ := reader.ReadString('\n')
		return strings.TrimSpace(value)
	}

	fmt.Println("=== Create New Advocate ===")
	fmt.Println()

	fullName := prompt("Full name")
	email := prompt("Email")
	barCouncilID := prompt("Bar council ID (optional)")

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println()

	input := services.RegisterInput{
		Email:    email,
		Password: string(passwordBytes),
		FullName: fullName,
	}
	if barCouncilID != "" {
		input.BarCouncilID = &barCouncilID
	}

	user, err := services.Register(db.DB, input)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Name: %s\n", user.FullName)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Println()
	fmt.Printf("The advocate can now log in with POST http://localhost:%s/auth/login\n", cfg.ServerPort)
}
