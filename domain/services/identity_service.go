package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"clubledger/domain/entities"
	"clubledger/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at signup
const MinPasswordLength = 6

// identityService implements interfaces.IdentityService over a credential repository
type identityService struct {
	credentials interfaces.CredentialRepository
	adminEmail  string
	clock       clockwork.Clock
	hashCost    int
}

// NewIdentityService creates an identity service. The account registered under
// adminEmail is the administrator and never owns a member record.
func NewIdentityService(credentials interfaces.CredentialRepository, adminEmail string, clock clockwork.Clock) interfaces.IdentityService {
	return &identityService{
		credentials: credentials,
		adminEmail:  NormalizeEmail(adminEmail),
		clock:       clock,
		hashCost:    bcrypt.DefaultCost,
	}
}

// NewIdentityServiceWithCost is NewIdentityService with a custom bcrypt cost, for tests
func NewIdentityServiceWithCost(credentials interfaces.CredentialRepository, adminEmail string, clock clockwork.Clock, cost int) interfaces.IdentityService {
	s := NewIdentityService(credentials, adminEmail, clock).(*identityService)
	s.hashCost = cost
	return s
}

// NormalizeEmail trims and lowercases an email so lookups are case insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *identityService) isAdmin(email string) bool {
	return s.adminEmail != "" && email == s.adminEmail
}

// Register implements interfaces.IdentityService
func (s *identityService) Register(ctx context.Context, name, email, password string) (*entities.Identity, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, entities.Reject(entities.ErrInvalidInput, "Please fill in all fields.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, entities.Reject(entities.ErrInvalidInput, "%q is not a valid email address.", email)
	}
	if len(password) < MinPasswordLength {
		return nil, entities.Reject(entities.ErrInvalidInput, "Password must be at least %d characters.", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &entities.Identity{
		Name:    name,
		Email:   email,
		IsAdmin: s.isAdmin(email),
	}
	if !identity.IsAdmin {
		identity.MemberID = uuid.NewString()
	}

	credential := &entities.Credential{
		MemberID:     identity.MemberID,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.credentials.Create(ctx, credential); err != nil {
		if errors.Is(err, entities.ErrEmailRegistered) {
			return nil, entities.Reject(entities.ErrEmailRegistered, "An account with %s already exists.", email)
		}
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	log.WithFields(log.Fields{
		"memberID": identity.MemberID,
		"email":    email,
		"isAdmin":  identity.IsAdmin,
	}).Info("Account registered")

	return identity, nil
}

// Authenticate implements interfaces.IdentityService
func (s *identityService) Authenticate(ctx context.Context, email, password string) (*entities.Identity, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, entities.Reject(entities.ErrInvalidInput, "Please enter your email and password.")
	}

	credential, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	if credential == nil {
		return nil, entities.Reject(entities.ErrInvalidCredentials, "Invalid email or password.")
	}
	if err := bcrypt.CompareHashAndPassword(credential.PasswordHash, []byte(password)); err != nil {
		return nil, entities.Reject(entities.ErrInvalidCredentials, "Invalid email or password.")
	}

	return &entities.Identity{
		MemberID: credential.MemberID,
		Email:    credential.Email,
		IsAdmin:  s.isAdmin(credential.Email),
	}, nil
}

// Forget implements interfaces.IdentityService
func (s *identityService) Forget(ctx context.Context, memberID string) error {
	if memberID == "" {
		return nil
	}
	if err := s.credentials.DeleteByMemberID(ctx, memberID); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
