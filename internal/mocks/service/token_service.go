package service

import (
	"time"

	domainservice "userhub/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockTokenService is a testify mock for service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a new mock bound to the test's lifecycle.
func NewMockTokenService(t mockConstructorTestingT) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) Issue(subject string, roles []string) (string, error) {
	args := m.Called(subject, roles)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Decode(token string) (*domainservice.Claims, error) {
	args := m.Called(token)

	var claims *domainservice.Claims
	if v := args.Get(0); v != nil {
		claims = v.(*domainservice.Claims)
	}

	return claims, args.Error(1)
}

func (m *MockTokenService) IsExpired(token string) bool {
	args := m.Called(token)

	return args.Bool(0)
}

func (m *MockTokenService) IsValid(token string, expectedSubject string) bool {
	args := m.Called(token, expectedSubject)

	return args.Bool(0)
}

func (m *MockTokenService) TTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}
