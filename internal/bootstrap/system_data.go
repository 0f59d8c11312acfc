package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
)

const defaultAdminEmail = "admin@atlaserp.local"

// InitializeSystemData seeds the initial admin account. The password
// comes from ADMIN_PASSWORD, falling back to a development default.
func InitializeSystemData(auth *services.AuthService) error {
	ctx := context.Background()

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
		log.Println("⚠️ ADMIN_PASSWORD not set, using the development default")
	}

	_, err := auth.CreateUser(ctx, services.CreateUserRequest{
		Name:     "System Administrator",
		Email:    email,
		Password: password,
		Role:     constants.RoleAdmin,
	})
	if errors.IsConflict(err) {
		return nil // already seeded
	}
	if err != nil {
		return err
	}

	log.Printf("👤 Seeded admin account: %s", email)
	return nil
}
