package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// memUserStore is an in-memory UserRepositoryFacade whose operations are atomic under one mutex,
// mirroring the conditional updates of the SQL repositories.
type memUserStore struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[int64]*domain.User{}}
}

var _ portsrepo.UserRepositoryFacade = (*memUserStore)(nil)

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

func (m *memUserStore) byEmail(email string) *domain.User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *memUserStore) byUsername(username string) *domain.User {
	for _, u := range m.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (m *memUserStore) byGoogleID(googleID string) *domain.User {
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u
		}
	}
	return nil
}

func (m *memUserStore) FindUserByID(_ context.Context, userID int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *memUserStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.byEmail(email); u != nil {
		return cloneUser(u), nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUserStore) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.byUsername(username); u != nil {
		return cloneUser(u), nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUserStore) insert(u *domain.User) error {
	if m.byEmail(u.Email) != nil {
		return &apperrors.DuplicateError{Field: "email"}
	}
	if m.byUsername(u.Username) != nil {
		return &apperrors.DuplicateError{Field: "username"}
	}
	if u.GoogleID != nil && m.byGoogleID(*u.GoogleID) != nil {
		return &apperrors.DuplicateError{Field: "google_id"}
	}
	m.nextID++
	now := time.Now()
	u.ID = m.nextID
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Role == "" {
		u.Role = domain.RoleBuyer
	}
	m.users[u.ID] = cloneUser(u)
	return nil
}

func (m *memUserStore) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(user)
}

func (m *memUserStore) UpsertPendingUser(_ context.Context, p portsrepo.PendingUser) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code, expires := p.VerificationCode, p.VerificationExpires
	existing := m.byEmail(p.Email)
	if existing == nil {
		username := p.Username
		if username == "" {
			suffix, _ := utils.GenerateSecureRandomString(8)
			username = domain.PlaceholderUsernamePrefix + suffix
		}
		u := &domain.User{
			Email:               p.Email,
			Username:            username,
			PasswordHash:        p.PasswordHash,
			Role:                domain.RoleBuyer,
			VerificationCode:    &code,
			VerificationExpires: &expires,
		}
		if err := m.insert(u); err != nil {
			return nil, err
		}
		return cloneUser(u), nil
	}
	if existing.IsVerified {
		return nil, apperrors.ErrAlreadyVerified
	}
	if p.Username != "" && p.Username != existing.Username {
		if other := m.byUsername(p.Username); other != nil {
			return nil, &apperrors.DuplicateError{Field: "username"}
		}
		existing.Username = p.Username
	}
	if p.PasswordHash != "" {
		existing.PasswordHash = p.PasswordHash
	}
	existing.VerificationCode = &code
	existing.VerificationExpires = &expires
	existing.UpdatedAt = time.Now()
	return cloneUser(existing), nil
}

func (m *memUserStore) UpdateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if other := m.byUsername(user.Username); other != nil && other.ID != user.ID {
		return &apperrors.DuplicateError{Field: "username"}
	}
	refresh := stored.RefreshToken
	updated := cloneUser(user)
	updated.RefreshToken = refresh
	updated.UpdatedAt = time.Now()
	m.users[user.ID] = updated
	return nil
}

func (m *memUserStore) ConsumeVerificationCode(_ context.Context, email, code string, now time.Time) (*domain.User, domain.VerificationOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmail(email)
	if u == nil {
		return nil, domain.VerificationMismatch, apperrors.ErrNotFound
	}
	if u.VerificationCode == nil || *u.VerificationCode != code {
		return nil, domain.VerificationMismatch, nil
	}
	if u.VerificationExpires != nil && utils.IsOTPExpired(*u.VerificationExpires, now) {
		return nil, domain.VerificationExpired, nil
	}
	u.IsVerified = true
	u.VerificationCode = nil
	u.VerificationExpires = nil
	return cloneUser(u), domain.VerificationOK, nil
}

func (m *memUserStore) SetRefreshToken(_ context.Context, userID int64, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (m *memUserStore) RotateRefreshToken(_ context.Context, userID int64, presented, next string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != presented {
		return nil, apperrors.ErrNotFound
	}
	u.RefreshToken = &next
	return cloneUser(u), nil
}

// snapshot returns the stored row for email, bypassing clone semantics for assertions.
func (m *memUserStore) snapshot(email string) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.byEmail(email); u != nil {
		return cloneUser(u)
	}
	return nil
}

// sentMail records one notification.
type sentMail struct {
	Template string
	To       string
	Code     string
	Username string
}

// recordingNotifier captures notifications and can be told to fail.
type recordingNotifier struct {
	mu          sync.Mutex
	sent        []sentMail
	failVerify  error
	failWelcome error
}

func (n *recordingNotifier) SendVerificationEmail(_ context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failVerify != nil {
		return n.failVerify
	}
	n.sent = append(n.sent, sentMail{Template: "verification", To: email, Code: code})
	return nil
}

func (n *recordingNotifier) SendWelcomeEmail(_ context.Context, email, username string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWelcome != nil {
		return n.failWelcome
	}
	n.sent = append(n.sent, sentMail{Template: "welcome", To: email, Username: username})
	return nil
}

// lastCode returns the most recent verification code mailed to email.
func (n *recordingNotifier) lastCode(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Template == "verification" && n.sent[i].To == email {
			return n.sent[i].Code
		}
	}
	return ""
}

func (n *recordingNotifier) count(template string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.sent {
		if m.Template == template {
			c++
		}
	}
	return c
}

// plainHasher keeps tests fast; the bcrypt hasher has its own tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	if len(password) > 72 {
		return "", bcrypt.ErrPasswordTooLong
	}
	return "plain:" + password, nil
}

func (plainHasher) Compare(hash, password string) bool {
	return hash != "" && strings.TrimPrefix(hash, "plain:") == password && strings.HasPrefix(hash, "plain:")
}

// countingHasher counts Compare calls so tests can assert every login pays for a comparison.
type countingHasher struct {
	plainHasher
	compares atomic.Int32
}

func (h *countingHasher) Compare(hash, password string) bool {
	h.compares.Add(1)
	return h.plainHasher.Compare(hash, password)
}

// recordingTracker captures analytics events.
type recordingTracker struct {
	mu     sync.Mutex
	events []string
}

func (t *recordingTracker) Enqueue(_ string, event string, _ map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
