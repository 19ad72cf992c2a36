package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/synkcrm/sessiond/internal/directory/domain"
	"github.com/synkcrm/sessiond/internal/directory/store"
	"github.com/synkcrm/sessiond/pkg/cryptox"
	"github.com/synkcrm/sessiond/pkg/idx"
	"github.com/synkcrm/sessiond/pkg/slogx"
)

var ErrSeedFailed = errors.New("failed to seed demo accounts")

// SeedUser describes one demo account created on first boot.
type SeedUser struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Portal    string // stored as-is, empty means no profile row
}

// DefaultSeedUsers mirrors the demo tenant the CRM ships with. The
// manager account exists so portal gating has something to reject.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Email: "admin@test.com", FirstName: "Demo", LastName: "Admin", Password: "demo123", Portal: "admin"},
		{Email: "partner@test.com", FirstName: "Demo", LastName: "Partner", Password: "demo123", Portal: "partner"},
		{Email: "manager@test.com", FirstName: "Demo", LastName: "Manager", Password: "demo123", Portal: "manager"},
	}
}

// SeedService populates an empty directory with demo accounts.
type SeedService struct {
	Store store.Store
	Users []SeedUser
}

// Seed creates the configured demo accounts if the user table is empty.
// It is a no-op on an already-populated directory.
func (s *SeedService) Seed(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		l.Debug("directory already populated, skipping seed")
		return nil
	}

	users := s.Users
	if len(users) == 0 {
		users = DefaultSeedUsers()
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, su := range users {
			hash, err := cryptox.HashPassword(su.Password)
			if err != nil {
				l.Error("failed to hash seed password",
					slog.String("email", su.Email),
					slog.Any("error", err),
				)
				return ErrSeedFailed
			}

			userID := idx.New().String()
			err = tx.Users().CreateUser(ctx, domain.User{
				ID:           userID,
				Email:        su.Email,
				FirstName:    su.FirstName,
				LastName:     su.LastName,
				PasswordHash: hash,
			})
			if err != nil {
				l.Error("failed to create seed user",
					slog.String("email", su.Email),
					slog.Any("error", err),
				)
				return ErrSeedFailed
			}

			if su.Portal != "" {
				if err := tx.Profiles().UpsertPortal(ctx, userID, su.Portal); err != nil {
					l.Error("failed to assign seed portal",
						slog.String("email", su.Email),
						slog.String("portal", su.Portal),
						slog.Any("error", err),
					)
					return ErrSeedFailed
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Info("seeded demo directory", slog.Int("users", len(users)))
	return nil
}
