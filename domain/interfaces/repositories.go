package interfaces

import (
	"context"

	"clubledger/domain/entities"
	"clubledger/events"
)

// StateLoader provides the persisted club state consumed once at startup
type StateLoader interface {
	// LoadState returns the stored club, or an empty state with zero deadlines on first run
	LoadState(ctx context.Context) (*entities.ClubState, error)
}

// MutationSink stores or replicates a mutation after the engine commits it
type MutationSink interface {
	OnMutation(ctx context.Context, event events.Event) error
}

// CredentialRepository defines the interface for login credential storage
type CredentialRepository interface {
	// Create stores a new credential; returns entities.ErrEmailRegistered if the email is taken
	Create(ctx context.Context, credential *entities.Credential) error

	// GetByEmail retrieves a credential, or nil when none exists
	GetByEmail(ctx context.Context, email string) (*entities.Credential, error)

	// DeleteByMemberID removes the credential belonging to a member
	DeleteByMemberID(ctx context.Context, memberID string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
