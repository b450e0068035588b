package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/replywatch/replywatch/internal/adapter/persistence"
	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/service/password"
)

// Creates a dashboard account: create_admin [email] [password] [name]
func main() {
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	email := "admin@replywatch.local"
	userPassword := "admin123"
	name := "Administrator"

	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	if len(os.Args) > 2 {
		userPassword = os.Args[2]
	}
	if len(os.Args) > 3 {
		name = os.Args[3]
	}

	passwordService := password.NewBcryptPasswordService(10)
	hash, err := passwordService.Hash(userPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := persistence.NewPostgresUserRepository(db)
	user := domain.NewUser(uuid.New().String(), email, name, hash)
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created dashboard user %s (%s)\n", user.Email, user.ID)
}
