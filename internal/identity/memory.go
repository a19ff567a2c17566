package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clientdesk/pkg/sentinel"
)

type record struct {
	id           string
	email        string
	passwordHash string
	banned       bool
	banForever   bool
	banExpiry    time.Time
}

// InMemoryProvider is the development identity provider. It keeps credentials
// and ban state in memory and mints JWT session tokens through a SessionCodec.
type InMemoryProvider struct {
	mu      sync.RWMutex
	byID    map[string]*record
	byEmail map[string]string
	codec   *SessionCodec
	now     func() time.Time
}

func NewInMemoryProvider(codec *SessionCodec) *InMemoryProvider {
	return &InMemoryProvider{
		byID:    make(map[string]*record),
		byEmail: make(map[string]string),
		codec:   codec,
		now:     time.Now,
	}
}

// Register creates an identity with the given credentials and returns its id.
func (p *InMemoryProvider) Register(_ context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", sentinel.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.byEmail[email]; exists {
		return "", sentinel.ErrInvalidState
	}
	id := uuid.New().String()
	p.byID[id] = &record{id: id, email: email, passwordHash: string(hash)}
	p.byEmail[email] = id
	return id, nil
}

// Login verifies credentials and issues a session token. Banned identities
// cannot log in.
func (p *InMemoryProvider) Login(_ context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.RLock()
	id, ok := p.byEmail[email]
	var rec *record
	if ok {
		rec = p.byID[id]
	}
	p.mu.RUnlock()

	if rec == nil {
		return "", sentinel.ErrNoSession
	}
	if p.isBanned(rec) {
		return "", sentinel.ErrNoSession
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.passwordHash), []byte(password)); err != nil {
		return "", sentinel.ErrNoSession
	}
	return p.codec.Issue(rec.id)
}

// ResolveSession verifies the token and returns the identity, treating banned
// identities as having no valid session.
func (p *InMemoryProvider) ResolveSession(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, sentinel.ErrNoSession
	}
	id, err := p.codec.Verify(token)
	if err != nil {
		return nil, sentinel.ErrNoSession
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.byID[id]
	if !ok {
		return nil, sentinel.ErrNoSession
	}
	if p.isBanned(rec) {
		return nil, sentinel.ErrNoSession
	}
	return &Identity{ID: rec.id, Email: rec.email}, nil
}

func (p *InMemoryProvider) Ban(_ context.Context, identityID string, ban Ban) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.byID[identityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.banned = true
	rec.banForever = ban.Forever
	if !ban.Forever {
		rec.banExpiry = p.now().Add(ban.Duration)
	}
	return nil
}

func (p *InMemoryProvider) Unban(_ context.Context, identityID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.byID[identityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.banned = false
	rec.banForever = false
	rec.banExpiry = time.Time{}
	return nil
}

func (p *InMemoryProvider) Delete(_ context.Context, identityID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.byID[identityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(p.byID, identityID)
	delete(p.byEmail, rec.email)
	return nil
}

// IsBanned reports current ban state, for toggling round-trip checks.
func (p *InMemoryProvider) IsBanned(identityID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.byID[identityID]
	return ok && p.isBanned(rec)
}

// isBanned must be called with the lock held.
func (p *InMemoryProvider) isBanned(rec *record) bool {
	if !rec.banned {
		return false
	}
	if rec.banForever {
		return true
	}
	return p.now().Before(rec.banExpiry)
}
