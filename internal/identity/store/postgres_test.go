//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"verifyflow/pkg/platform/sentinel"
	"verifyflow/pkg/testutil/containers"
)

type PostgresUserStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresUserStore
	ctx   context.Context
}

func TestPostgresUserStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresUserStoreSuite))
}

func (s *PostgresUserStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(EnsureSchema(s.ctx, s.pg.DB))
	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresUserStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "users"))
}

func (s *PostgresUserStoreSuite) TestCreateAndFind() {
	user := newUser("pg@example.com")
	s.Require().NoError(s.store.Create(s.ctx, user))

	byID, err := s.store.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user.Email, byID.Email)
	s.Equal(user.Role, byID.Role)
	s.True(user.CreatedAt.Equal(byID.CreatedAt))

	byEmail, err := s.store.FindByEmail(s.ctx, user.Email)
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)

	s.ErrorIs(s.store.Create(s.ctx, newUser("pg@example.com")), sentinel.ErrAlreadyUsed)

	_, err = s.store.FindByEmail(s.ctx, "missing@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
