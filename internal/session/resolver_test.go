package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"clientdesk/internal/account/models"
	"clientdesk/internal/account/store"
	"clientdesk/internal/identity"
	dErrors "clientdesk/pkg/domain-errors"
	"clientdesk/pkg/testutil"
)

type ResolverSuite struct {
	suite.Suite
	provider *identity.InMemoryProvider
	accounts *store.InMemoryStore
	resolver *Resolver
	ctx      context.Context
}

func (s *ResolverSuite) SetupTest() {
	codec, err := identity.NewSessionCodec("test-key", time.Hour)
	s.Require().NoError(err)
	s.provider = identity.NewInMemoryProvider(codec)
	s.accounts = store.NewInMemory()
	s.resolver = NewResolver(s.provider, s.accounts)
	s.ctx = context.Background()
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

// seed registers an identity, creates the linked account, and returns a live
// session token.
func (s *ResolverSuite) seed(email string, role models.Role, status models.Status) (string, *models.Account) {
	identityID, err := s.provider.Register(s.ctx, email, "pw-123456")
	s.Require().NoError(err)
	account := testutil.NewAccount(email, role, status, identityID)
	s.Require().NoError(s.accounts.Create(s.ctx, account))
	token, err := s.provider.Login(s.ctx, email, "pw-123456")
	s.Require().NoError(err)
	return token, account
}

func (s *ResolverSuite) TestResolveSuccess() {
	token, want := s.seed("ops@corp.test", models.AdminRole(models.TierSecondary), models.StatusActive)

	got, err := s.resolver.Resolve(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(want.ID, got.ID)
	s.True(got.Role.IsAdmin())
}

func (s *ResolverSuite) TestResolveEmptyToken() {
	_, err := s.resolver.Resolve(s.ctx, "")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ResolverSuite) TestResolveInvalidToken() {
	s.seed("ops@corp.test", models.AdminRole(models.TierSecondary), models.StatusActive)

	_, err := s.resolver.Resolve(s.ctx, "garbage")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ResolverSuite) TestResolveIdentityWithoutAccount() {
	_, err := s.provider.Register(s.ctx, "orphan@corp.test", "pw-123456")
	s.Require().NoError(err)
	token, err := s.provider.Login(s.ctx, "orphan@corp.test", "pw-123456")
	s.Require().NoError(err)

	_, err = s.resolver.Resolve(s.ctx, token)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ResolverSuite) TestResolveInactiveAccount() {
	token, _ := s.seed("ops@corp.test", models.ClientRole(), models.StatusInactive)

	_, err := s.resolver.Resolve(s.ctx, token)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ResolverSuite) router() http.Handler {
	r := chi.NewRouter()
	NewHandler(s.resolver, testutil.DiscardLogger()).Register(r)
	return r
}

func (s *ResolverSuite) TestHandleMe() {
	token, want := s.seed("ops@corp.test", models.AdminRole(models.TierPrimary), models.StatusActive)

	req := httptest.NewRequest(http.MethodGet, "/session/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp ProfileResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(want.ID.String(), resp.AccountID)
	s.Equal("ADMIN", resp.Role)
	s.Require().NotNil(resp.AdminTier)
	s.Equal("PRIMARY", *resp.AdminTier)
}

func (s *ResolverSuite) TestHandleMeNoCookie() {
	req := httptest.NewRequest(http.MethodGet, "/session/me", nil)
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ResolverSuite) TestHandleMeNullTierForClient() {
	token, _ := s.seed("client@corp.test", models.ClientRole(), models.StatusActive)

	req := httptest.NewRequest(http.MethodGet, "/session/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Nil(resp["admin_tier"])
}
