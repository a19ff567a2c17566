package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clientdesk/pkg/sentinel"
)

type ProviderSuite struct {
	suite.Suite
	provider *InMemoryProvider
	ctx      context.Context
}

func (s *ProviderSuite) SetupTest() {
	codec, err := NewSessionCodec("test-signing-key", time.Hour)
	s.Require().NoError(err)
	s.provider = NewInMemoryProvider(codec)
	s.ctx = context.Background()
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) register(email, password string) string {
	id, err := s.provider.Register(s.ctx, email, password)
	s.Require().NoError(err)
	return id
}

func (s *ProviderSuite) TestLoginAndResolve() {
	id := s.register("ops@corp.test", "hunter22")

	token, err := s.provider.Login(s.ctx, "ops@corp.test", "hunter22")
	s.Require().NoError(err)

	ident, err := s.provider.ResolveSession(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(id, ident.ID)
	s.Equal("ops@corp.test", ident.Email)
}

func (s *ProviderSuite) TestLoginWrongPassword() {
	s.register("ops@corp.test", "hunter22")

	_, err := s.provider.Login(s.ctx, "ops@corp.test", "wrong")
	s.ErrorIs(err, sentinel.ErrNoSession)
}

func (s *ProviderSuite) TestResolveGarbageToken() {
	_, err := s.provider.ResolveSession(s.ctx, "not-a-jwt")
	s.ErrorIs(err, sentinel.ErrNoSession)

	_, err = s.provider.ResolveSession(s.ctx, "")
	s.ErrorIs(err, sentinel.ErrNoSession)
}

func (s *ProviderSuite) TestResolveForeignToken() {
	s.register("ops@corp.test", "hunter22")

	otherCodec, err := NewSessionCodec("different-key", time.Hour)
	s.Require().NoError(err)
	forged, err := otherCodec.Issue("some-id")
	s.Require().NoError(err)

	_, err = s.provider.ResolveSession(s.ctx, forged)
	s.ErrorIs(err, sentinel.ErrNoSession)
}

func (s *ProviderSuite) TestBanForeverBlocksSession() {
	id := s.register("ops@corp.test", "hunter22")
	token, err := s.provider.Login(s.ctx, "ops@corp.test", "hunter22")
	s.Require().NoError(err)

	s.Require().NoError(s.provider.Ban(s.ctx, id, Ban{Forever: true}))
	s.True(s.provider.IsBanned(id))

	_, err = s.provider.ResolveSession(s.ctx, token)
	s.ErrorIs(err, sentinel.ErrNoSession)

	_, err = s.provider.Login(s.ctx, "ops@corp.test", "hunter22")
	s.ErrorIs(err, sentinel.ErrNoSession)
}

func (s *ProviderSuite) TestUnbanRestoresSession() {
	id := s.register("ops@corp.test", "hunter22")
	token, err := s.provider.Login(s.ctx, "ops@corp.test", "hunter22")
	s.Require().NoError(err)

	s.Require().NoError(s.provider.Ban(s.ctx, id, Ban{Forever: true}))
	s.Require().NoError(s.provider.Unban(s.ctx, id))
	s.False(s.provider.IsBanned(id))

	_, err = s.provider.ResolveSession(s.ctx, token)
	s.NoError(err)
}

func (s *ProviderSuite) TestTimedBanExpires() {
	id := s.register("ops@corp.test", "hunter22")

	clock := time.Now()
	s.provider.now = func() time.Time { return clock }

	s.Require().NoError(s.provider.Ban(s.ctx, id, Ban{Duration: time.Hour}))
	s.True(s.provider.IsBanned(id))

	clock = clock.Add(2 * time.Hour)
	s.False(s.provider.IsBanned(id))
}

func (s *ProviderSuite) TestDeleteRemovesIdentity() {
	id := s.register("ops@corp.test", "hunter22")
	token, err := s.provider.Login(s.ctx, "ops@corp.test", "hunter22")
	s.Require().NoError(err)

	s.Require().NoError(s.provider.Delete(s.ctx, id))

	_, err = s.provider.ResolveSession(s.ctx, token)
	s.ErrorIs(err, sentinel.ErrNoSession)

	s.ErrorIs(s.provider.Delete(s.ctx, id), sentinel.ErrNotFound)
}

func (s *ProviderSuite) TestDuplicateRegistration() {
	s.register("ops@corp.test", "hunter22")
	_, err := s.provider.Register(s.ctx, "ops@corp.test", "other")
	s.ErrorIs(err, sentinel.ErrInvalidState)
}
