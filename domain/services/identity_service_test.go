package services

import (
	"context"
	"errors"
	"testing"

	"clubledger/domain/entities"
	"clubledger/domain/testhelpers"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAdminEmail = "admin@club.example"

func newTestIdentityService(repo *testhelpers.MockCredentialRepository) *identityService {
	clock := clockwork.NewFakeClockAt(testEpoch)
	return NewIdentityServiceWithCost(repo, testAdminEmail, clock, bcrypt.MinCost).(*identityService)
}

func TestIdentityService_Register(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(testhelpers.MockCredentialRepository)
	service := newTestIdentityService(repo)

	repo.On("Create", ctx, mock.MatchedBy(func(c *entities.Credential) bool {
		return c.Email == "ada@example.com" && c.MemberID != "" &&
			bcrypt.CompareHashAndPassword(c.PasswordHash, []byte("secret1")) == nil
	})).Return(nil)

	identity, err := service.Register(ctx, " Ada ", "  Ada@Example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "Ada", identity.Name)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.NotEmpty(t, identity.MemberID)
	assert.False(t, identity.IsAdmin)
	repo.AssertExpectations(t)
}

func TestIdentityService_Register_Admin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(testhelpers.MockCredentialRepository)
	service := newTestIdentityService(repo)

	repo.On("Create", ctx, mock.MatchedBy(func(c *entities.Credential) bool {
		return c.MemberID == "" && c.Email == testAdminEmail
	})).Return(nil)

	identity, err := service.Register(ctx, "Admin", "ADMIN@club.example", "secret1")

	require.NoError(t, err)
	assert.True(t, identity.IsAdmin)
	assert.Empty(t, identity.MemberID)
	repo.AssertExpectations(t)
}

func TestIdentityService_Register_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		userName     string
		email        string
		password     string
		createErr    error
		expectCreate bool
		expectedKind error
	}{
		{name: "missing name", userName: "", email: "a@example.com", password: "secret1", expectedKind: entities.ErrInvalidInput},
		{name: "bad email", userName: "A", email: "not-an-email", password: "secret1", expectedKind: entities.ErrInvalidInput},
		{name: "short password", userName: "A", email: "a@example.com", password: "12345", expectedKind: entities.ErrInvalidInput},
		{name: "email taken", userName: "A", email: "a@example.com", password: "secret1", createErr: entities.ErrEmailRegistered, expectCreate: true, expectedKind: entities.ErrEmailRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			repo := new(testhelpers.MockCredentialRepository)
			service := newTestIdentityService(repo)
			if tt.expectCreate {
				repo.On("Create", ctx, mock.Anything).Return(tt.createErr)
			}

			identity, err := service.Register(ctx, tt.userName, tt.email, tt.password)

			assert.Nil(t, identity)
			assert.ErrorIs(t, err, tt.expectedKind)
			assert.True(t, entities.IsRejection(err))
			repo.AssertExpectations(t)
		})
	}
}

func TestIdentityService_Register_StoreFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(testhelpers.MockCredentialRepository)
	service := newTestIdentityService(repo)
	repo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	_, err := service.Register(ctx, "A", "a@example.com", "secret1")

	require.Error(t, err)
	assert.False(t, entities.IsRejection(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIdentityService_Authenticate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	member := &entities.Credential{MemberID: "m1", Email: "ada@example.com", PasswordHash: hash}
	admin := &entities.Credential{Email: testAdminEmail, PasswordHash: hash}

	tests := []struct {
		name          string
		email         string
		password      string
		stored        *entities.Credential
		expectLookup  string
		expectedID    string
		expectedAdmin bool
		expectedKind  error
	}{
		{name: "member login", email: "Ada@example.com", password: "secret1", stored: member, expectLookup: "ada@example.com", expectedID: "m1"},
		{name: "admin login", email: testAdminEmail, password: "secret1", stored: admin, expectLookup: testAdminEmail, expectedAdmin: true},
		{name: "wrong password", email: "ada@example.com", password: "nope", stored: member, expectLookup: "ada@example.com", expectedKind: entities.ErrInvalidCredentials},
		{name: "unknown email", email: "who@example.com", password: "secret1", expectLookup: "who@example.com", expectedKind: entities.ErrInvalidCredentials},
		{name: "missing password", email: "ada@example.com", password: "", expectedKind: entities.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			repo := new(testhelpers.MockCredentialRepository)
			service := newTestIdentityService(repo)
			if tt.expectLookup != "" {
				if tt.stored != nil {
					repo.On("GetByEmail", ctx, tt.expectLookup).Return(tt.stored, nil)
				} else {
					repo.On("GetByEmail", ctx, tt.expectLookup).Return(nil, nil)
				}
			}

			identity, err := service.Authenticate(ctx, tt.email, tt.password)

			if tt.expectedKind != nil {
				assert.Nil(t, identity)
				assert.ErrorIs(t, err, tt.expectedKind)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, identity.MemberID)
				assert.Equal(t, tt.expectedAdmin, identity.IsAdmin)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestIdentityService_Forget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(testhelpers.MockCredentialRepository)
	service := newTestIdentityService(repo)
	repo.On("DeleteByMemberID", ctx, "m1").Return(nil)

	require.NoError(t, service.Forget(ctx, "m1"))
	require.NoError(t, service.Forget(ctx, ""))
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "DeleteByMemberID", 1)
}
