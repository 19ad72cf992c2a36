package service

import (
	"context"
	"errors"

	"github.com/synkcrm/sessiond/internal/directory/store"
)

// ProfileService reads and writes the profile/portal mapping.
type ProfileService struct {
	Store store.Store
}

// ErrNoProfile reports that a user has no portal assignment at all.
var ErrNoProfile = errors.New("no_profile")

// PortalForUser returns the raw portal value assigned to a user. The value
// is not validated against the routable set; that is the caller's decision.
func (s *ProfileService) PortalForUser(ctx context.Context, userID string) (string, error) {
	portal, err := s.Store.Profiles().GetPortal(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNoProfile
		}
		return "", err
	}
	return portal, nil
}

// AssignPortal creates or replaces the portal assignment for a user.
func (s *ProfileService) AssignPortal(ctx context.Context, userID, portal string) error {
	return s.Store.Profiles().UpsertPortal(ctx, userID, portal)
}
