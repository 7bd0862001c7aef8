package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
)

// User is a seeded account row.
type User struct {
	ID    int64
	Email string
}

// CreateUser inserts a user with a unique email.
func CreateUser(t *testing.T, db *sql.DB, confirmed bool) User {
	t.Helper()

	u := User{Email: uuid.NewString() + "@example.test"}
	err := db.QueryRowContext(
		context.Background(),
		"INSERT INTO users(email, name, is_confirmed) VALUES ($1, $2, $3) RETURNING id",
		u.Email, "test user", confirmed,
	).Scan(&u.ID)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateReview inserts a review owned by userID and returns its id.
func CreateReview(t *testing.T, db *sql.DB, userID int64) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(
		context.Background(),
		"INSERT INTO reviews(title, description, user_id) VALUES ($1, $2, $3) RETURNING id",
		"fixture review", "fixture body", userID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	return id
}

// CreateProvider inserts a provider and one of its services, returning both ids.
func CreateProvider(t *testing.T, db *sql.DB) (providerID, serviceID int64) {
	t.Helper()

	ctx := context.Background()
	if err := db.QueryRowContext(
		ctx,
		"INSERT INTO providers(title, description) VALUES ($1, $2) RETURNING id",
		"fixture provider", "fixture description",
	).Scan(&providerID); err != nil {
		t.Fatalf("create provider: %v", err)
	}

	if err := db.QueryRowContext(
		ctx,
		"INSERT INTO provider_services(provider_id, title) VALUES ($1, $2) RETURNING id",
		providerID, "fixture service",
	).Scan(&serviceID); err != nil {
		t.Fatalf("create service: %v", err)
	}

	return providerID, serviceID
}
