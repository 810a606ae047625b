package testhelpers

import (
	"context"

	"clubledger/domain/entities"
	"clubledger/events"

	"github.com/stretchr/testify/mock"
)

// MockCredentialRepository is a mock implementation of CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Create(ctx context.Context, credential *entities.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockCredentialRepository) GetByEmail(ctx context.Context, email string) (*entities.Credential, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Credential), args.Error(1)
}

func (m *MockCredentialRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

// MockStateLoader is a mock implementation of StateLoader
type MockStateLoader struct {
	mock.Mock
}

func (m *MockStateLoader) LoadState(ctx context.Context) (*entities.ClubState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClubState), args.Error(1)
}

// MockMutationSink is a mock implementation of MutationSink
type MockMutationSink struct {
	mock.Mock
}

func (m *MockMutationSink) OnMutation(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockIdentityService is a mock implementation of IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Register(ctx context.Context, name, email, password string) (*entities.Identity, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Identity), args.Error(1)
}

func (m *MockIdentityService) Authenticate(ctx context.Context, email, password string) (*entities.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Identity), args.Error(1)
}

func (m *MockIdentityService) Forget(ctx context.Context, memberID string) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// RecordingPublisher collects published events in order
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.Events = append(p.Events, event)
	return nil
}

// OfType returns the recorded events of one type
func (p *RecordingPublisher) OfType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range p.Events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}
