package mocks

import (
	"fmt"
	"sync"
	"time"
)

// MockPasswordService implements domain.PasswordService for testing with a
// trivially reversible "hashed_" prefix scheme.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

// NewMockPasswordService creates a new MockPasswordService
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes a password
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify checks a password against a hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

// MockTokenGenerator implements domain.TokenGenerator for testing with
// deterministic sequential tokens.
type MockTokenGenerator struct {
	GenerateFunc func(byteLength int) (string, error)

	mu      sync.Mutex
	counter int
}

// NewMockTokenGenerator creates a new MockTokenGenerator
func NewMockTokenGenerator() *MockTokenGenerator {
	return &MockTokenGenerator{}
}

// Generate returns an opaque token
func (m *MockTokenGenerator) Generate(byteLength int) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(byteLength)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("token-%d", m.counter), nil
}

// MockNotificationService implements domain.NotificationService for testing,
// recording every sent mail.
type MockNotificationService struct {
	SendEmailFunc func(to, subject, body string) error

	mu   sync.Mutex
	Sent []SentMail
}

// SentMail records one delivered notification
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// NewMockNotificationService creates a new MockNotificationService
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendEmail delivers a rendered mail
func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// MockClock implements domain.Clock for testing with a settable current time
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a MockClock frozen at the given time
func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

// Now returns the mocked current time
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mocked clock forward
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set pins the mocked clock to an absolute time
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
