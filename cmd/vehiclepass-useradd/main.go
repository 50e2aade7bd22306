// Command vehiclepass-useradd provisions or replaces an auth user in the
// server's database.
//
//	vehiclepass-useradd -username gate3 -role validator
//
// The password is read from stdin so it never lands in shell history.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"vehiclepass/internal/auth"
	"vehiclepass/internal/config"
	"vehiclepass/internal/db"
	"vehiclepass/internal/vehiclepass/store/sqlite"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	username := flag.String("username", "", "username to create or replace")
	role := flag.String("role", string(auth.RoleValidator), "role: admin or validator")
	dbPath := flag.String("db", cfg.DBPath, "path to the server database")
	flag.Parse()

	logger := log.New(os.Stderr, "vehiclepass-useradd ", 0)

	name := strings.TrimSpace(*username)
	if name == "" {
		logger.Fatal("missing -username")
	}
	r := auth.Role(strings.ToLower(strings.TrimSpace(*role)))
	if !auth.ValidRole(r) {
		logger.Fatalf("unknown role %q (want admin or validator)", *role)
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		logger.Fatalf("read password: %v", err)
	}
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		logger.Fatal("empty password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Fatalf("hash password: %v", err)
	}

	ctx := context.Background()
	sqlDB, err := db.Open(ctx, db.Config{Path: *dbPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()

	users := sqlite.NewUserStore(sqlDB)
	if err := users.Upsert(ctx, auth.User{
		Username:     name,
		PasswordHash: hash,
		Role:         r,
	}); err != nil {
		logger.Fatalf("store user: %v", err)
	}

	logger.Printf("user %s (%s) stored", name, r)
}
