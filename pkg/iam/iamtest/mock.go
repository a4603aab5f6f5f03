// pkg/iam/iamtest/mock.go
//
// Package iamtest provides testify mocks of iam.Provider for orchestrator tests.
package iamtest

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock IAM provider without a secret resolver.
type MockProvider struct {
	mock.Mock
}

var _ iam.Provider = (*MockProvider)(nil)

func (m *MockProvider) Name() string {
	return "Mock"
}

func (m *MockProvider) Authenticate(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) CreateRealm(ctx context.Context, token, realm string) (iam.Status, error) {
	args := m.Called(ctx, token, realm)
	return args.Get(0).(iam.Status), args.Error(1)
}

func (m *MockProvider) DeleteRealm(ctx context.Context, token, realm string) (iam.Status, error) {
	args := m.Called(ctx, token, realm)
	return args.Get(0).(iam.Status), args.Error(1)
}

func (m *MockProvider) CreateClient(ctx context.Context, token, realm string, c iam.ClientDescriptor) (string, error) {
	args := m.Called(ctx, token, realm, c)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) CreateUser(ctx context.Context, token, realm string, u iam.UserSpec) (string, error) {
	args := m.Called(ctx, token, realm, u)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) SetUserPassword(ctx context.Context, token, realm, userID, password string) error {
	args := m.Called(ctx, token, realm, userID, password)
	return args.Error(0)
}

// MockResolverProvider also implements iam.SecretResolver.
type MockResolverProvider struct {
	MockProvider
	AcceptSecret bool
}

var _ iam.SecretResolver = (*MockResolverProvider)(nil)

func (m *MockResolverProvider) AcceptsClientSecret() bool {
	return m.AcceptSecret
}

func (m *MockResolverProvider) ResolveClientSecret(ctx context.Context, token, realm, clientUUID string) (string, error) {
	args := m.Called(ctx, token, realm, clientUUID)
	return args.String(0), args.Error(1)
}
