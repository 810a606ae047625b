package interfaces

import (
	"context"

	"clubledger/domain/entities"
)

// IdentityService resolves logins and signups against the credential store
type IdentityService interface {
	// Register creates a credential for a new member and returns its member id
	Register(ctx context.Context, name, email, password string) (*entities.Identity, error)

	// Authenticate checks credentials and returns the identity they belong to
	Authenticate(ctx context.Context, email, password string) (*entities.Identity, error)

	// Forget removes a member's credential after an admin delete
	Forget(ctx context.Context, memberID string) error
}
