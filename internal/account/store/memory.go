package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"clientdesk/internal/account/models"
	"clientdesk/pkg/sentinel"
)

// InMemoryStore stores accounts in memory for development and tests.
type InMemoryStore struct {
	mu          sync.RWMutex
	accounts    map[uuid.UUID]*models.Account
	identityIdx map[string]uuid.UUID
	emailIdx    map[string]uuid.UUID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		accounts:    make(map[uuid.UUID]*models.Account),
		identityIdx: make(map[string]uuid.UUID),
		emailIdx:    make(map[string]uuid.UUID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts[account.ID] = &cp
	s.identityIdx[account.IdentityID] = account.ID
	s.emailIdx[strings.ToLower(account.Email)] = account.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByIdentity(_ context.Context, identityID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.identityIdx[identityID]; ok {
		cp := *s.accounts[id]
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *InMemoryStore) DeleteByEmails(_ context.Context, emails []string) ([]DeletedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted []DeletedAccount
	for _, email := range emails {
		key := strings.ToLower(email)
		id, ok := s.emailIdx[key]
		if !ok {
			continue
		}
		a := s.accounts[id]
		deleted = append(deleted, DeletedAccount{Email: a.Email, IdentityID: a.IdentityID})
		delete(s.accounts, id)
		delete(s.identityIdx, a.IdentityID)
		delete(s.emailIdx, key)
	}
	return deleted, nil
}
