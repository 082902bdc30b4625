package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/database"
	"github.com/stemsi/resultbook/internal/logger"
	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/repository"
	"github.com/stemsi/resultbook/internal/service"
)

func main() {
	var username, role string
	flag.StringVar(&username, "username", "", "Operator username (prompted when empty)")
	flag.StringVar(&role, "role", string(model.RoleSupervisor), "Operator role: supervisor, teacher or account")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	authService := service.NewAuthService(cfg, repository.NewOperatorRepository(pool), log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Operator ===")

	if username == "" {
		fmt.Print("Enter Username: ")
		username, _ = reader.ReadString('\n')
	}
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		fmt.Println("Error: Username must be at least 3 characters")
		os.Exit(1)
	}

	opRole := model.Role(strings.ToLower(strings.TrimSpace(role)))
	if !opRole.Valid() {
		fmt.Printf("Error: unknown role %q\n", role)
		os.Exit(1)
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	// ─── Save ──────────────────────────────────────────────────────────
	op, err := authService.CreateOperator(ctx, username, password, opRole)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create operator")
	}

	fmt.Printf("\nSuccess! Operator '%s' (%s) saved with ID: %d\n", op.Username, op.Role, op.ID)
}
