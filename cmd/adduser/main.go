// Command adduser creates an account from the terminal, bypassing the
// web registration flow. Useful for bootstrapping a fresh database.
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

	"conti/internal/auth"
	"conti/internal/cli"
	"conti/internal/log"
)

func main() {
	var (
		fullName = flag.String("name", "", "full name of the new user")
		email    = flag.String("email", "", "email address of the new user")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger("info")
	cfg := cli.LoadAndValidateConfig(logger)

	reader := bufio.NewReader(os.Stdin)
	name := strings.TrimSpace(*fullName)
	for name == "" {
		fmt.Print("Full name: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			logger.Error("Failed to read name", log.FieldError, err)
			os.Exit(1)
		}
		name = strings.TrimSpace(line)
	}

	addr := strings.TrimSpace(*email)
	for addr == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			logger.Error("Failed to read email", log.FieldError, err)
			os.Exit(1)
		}
		addr = strings.TrimSpace(line)
	}

	password, err := promptPassword()
	if err != nil {
		logger.Error("Failed to read password", log.FieldError, err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", log.FieldError, err)
		os.Exit(1)
	}

	store := cli.OpenStore(logger, cfg.SQLiteDBPath)
	defer store.Close()

	ctx := context.Background()
	user, err := store.Users.Create(ctx, name, addr, hash)
	if err != nil {
		logger.Error("Failed to create user", log.FieldError, err, log.FieldEmail, addr)
		os.Exit(1)
	}
	if err := store.Categories.SeedDefaults(ctx, user.ID); err != nil {
		logger.Error("Failed to seed default categories", log.FieldError, err, log.FieldUserID, user.ID)
		os.Exit(1)
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
}

func promptPassword() (string, error) {
	for {
		fmt.Print("Password: ")
		first, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		if len(first) < 6 {
			fmt.Println("Password must be at least 6 characters.")
			continue
		}

		fmt.Print("Confirm password: ")
		second, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		if string(first) != string(second) {
			fmt.Println("Passwords do not match, try again.")
			continue
		}
		return string(first), nil
	}
}
