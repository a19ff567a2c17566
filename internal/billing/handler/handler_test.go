package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	accountmodels "clientdesk/internal/account/models"
	accountstore "clientdesk/internal/account/store"
	"clientdesk/internal/billing/models"
	"clientdesk/internal/billing/service"
	billingstore "clientdesk/internal/billing/store"
	"clientdesk/internal/identity"
	"clientdesk/internal/session"
	"clientdesk/pkg/testutil"
)

type StatusSuite struct {
	suite.Suite
	provider *identity.InMemoryProvider
	accounts *accountstore.InMemoryStore
	links    *billingstore.InMemoryLinkStore
	invoices *billingstore.InMemoryInvoiceStore
	router   http.Handler
	ctx      context.Context
}

func (s *StatusSuite) SetupTest() {
	codec, err := identity.NewSessionCodec("test-key", time.Hour)
	s.Require().NoError(err)
	s.provider = identity.NewInMemoryProvider(codec)
	s.accounts = accountstore.NewInMemory()
	s.links = billingstore.NewInMemoryLinks()
	s.invoices = billingstore.NewInMemoryInvoices()
	s.ctx = context.Background()

	resolver := session.NewResolver(s.provider, s.accounts)
	billing := service.New(s.links, s.invoices, nil)

	r := chi.NewRouter()
	New(resolver, billing, testutil.DiscardLogger()).Register(r)
	s.router = r
}

func TestStatusSuite(t *testing.T) {
	suite.Run(t, new(StatusSuite))
}

func (s *StatusSuite) seed(role accountmodels.Role) (string, *accountmodels.Account) {
	identityID, err := s.provider.Register(s.ctx, "user@corp.test", "pw-123456")
	s.Require().NoError(err)
	account := testutil.NewAccount("user@corp.test", role, accountmodels.StatusActive, identityID)
	s.Require().NoError(s.accounts.Create(s.ctx, account))
	token, err := s.provider.Login(s.ctx, "user@corp.test", "pw-123456")
	s.Require().NoError(err)
	return token, account
}

func (s *StatusSuite) get(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/billing/status", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *StatusSuite) TestUnauthenticated() {
	rec := s.get("")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *StatusSuite) TestMissingAccountRow() {
	_, err := s.provider.Register(s.ctx, "orphan@corp.test", "pw-123456")
	s.Require().NoError(err)
	token, err := s.provider.Login(s.ctx, "orphan@corp.test", "pw-123456")
	s.Require().NoError(err)

	rec := s.get(token)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *StatusSuite) TestNonClientNotBlocked() {
	token, _ := s.seed(accountmodels.AdminRole(accountmodels.TierSecondary))

	rec := s.get(token)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.Blocked)
	s.Empty(resp.DelinquentInvoices)
}

func (s *StatusSuite) TestDelinquentClientBlocked() {
	token, account := s.seed(accountmodels.ClientRole())
	orgID := uuid.New()
	s.links.Add(models.OrganizationLink{
		AccountID:      account.ID,
		OrganizationID: orgID,
		Status:         models.LinkActive,
	})
	due := time.Now().AddDate(0, 0, -3)
	s.invoices.Add(models.Invoice{
		ID:             uuid.New(),
		OrganizationID: orgID,
		BalanceCents:   100000,
		DueDate:        &due,
		Period:         "2026-02",
		Status:         models.InvoiceOpen,
	})

	rec := s.get(token)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Blocked)
	s.Equal(orgID.String(), resp.OrganizationID)
	s.Require().Len(resp.DelinquentInvoices, 1)
	s.Equal(int64(100000), resp.DelinquentInvoices[0].Balance)
	s.Equal("2026-02", resp.DelinquentInvoices[0].Period)
}

func (s *StatusSuite) TestUnlinkedClientNotBlocked() {
	token, _ := s.seed(accountmodels.ClientRole())

	rec := s.get(token)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.Blocked)
}
