//go:build integration

package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"verifyflow/internal/casework/casetest"
	"verifyflow/internal/casework/models"
	id "verifyflow/pkg/domain"
	"verifyflow/pkg/platform/sentinel"
	"verifyflow/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(EnsureSchema(s.ctx, s.pg.DB))
	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "case_documents", "cases"))
}

func (s *PostgresStoreSuite) TestRoundTripsBusinessCase() {
	c := casetest.NewCase(id.NewUserID(), models.CaseTypeBusiness)
	bp := casetest.ValidBusiness()
	bp.AddOwner(casetest.ValidOwner("Grace", "60"))
	s.Require().NoError(c.SetProfile(bp))
	s.Require().NoError(s.store.Create(s.ctx, c))

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	got, ok := found.Business()
	s.Require().True(ok)
	s.Equal("Acme", got.BusinessName)
	s.Require().Len(got.BeneficialOwners, 1)
	s.Equal("Grace", got.BeneficialOwners[0].FirstName)
	s.Nil(found.RiskLevel)
	s.Nil(found.Review)

	s.ErrorIs(s.store.Create(s.ctx, c), sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestExecuteSyncsDocuments() {
	c := casetest.NewCase(id.NewUserID(), models.CaseTypeIndividual)
	s.Require().NoError(s.store.Create(s.ctx, c))
	passport := casetest.Document(c.ID, models.DocPassport)
	bill := casetest.Document(c.ID, models.DocProofOfAddress)

	_, err := s.store.Execute(s.ctx, c.ID,
		func(*models.Case) error { return nil },
		func(c *models.Case) {
			c.Documents = append(c.Documents, passport, bill)
			c.Touch(casetest.Now)
		},
	)
	s.Require().NoError(err)

	docs, err := s.store.ListDocuments(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Len(docs, 2)

	_, err = s.store.Execute(s.ctx, c.ID,
		func(*models.Case) error { return nil },
		func(c *models.Case) {
			c.Documents = []models.Document{bill}
			c.Touch(casetest.Now)
		},
	)
	s.Require().NoError(err)

	_, err = s.store.FindDocument(s.ctx, passport.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	found, err := s.store.FindDocument(s.ctx, bill.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, found.CaseID)

	row, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), row.Version)
}

func (s *PostgresStoreSuite) TestExecuteLocksRow() {
	c := casetest.NewCase(id.NewUserID(), models.CaseTypeIndividual)
	s.Require().NoError(s.store.Create(s.ctx, c))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(s.ctx, c.ID,
				func(*models.Case) error { return nil },
				func(c *models.Case) { c.Touch(casetest.Now) },
			)
			s.NoError(err)
		}()
	}
	wg.Wait()

	row, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(int64(11), row.Version)
}

func (s *PostgresStoreSuite) TestListsAndCounts() {
	user := id.NewUserID()
	for _, st := range []models.Status{models.StatusDraft, models.StatusSubmitted, models.StatusUnderReview} {
		c := casetest.NewCase(user, models.CaseTypeIndividual)
		c.Status = st
		s.Require().NoError(s.store.Create(s.ctx, c))
	}

	mine, err := s.store.ListByUser(s.ctx, user)
	s.Require().NoError(err)
	s.Len(mine, 3)

	pending, err := s.store.ListByStatus(s.ctx, models.StatusSubmitted, models.StatusUnderReview)
	s.Require().NoError(err)
	s.Len(pending, 2)

	counts, err := s.store.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[models.StatusDraft])
	s.Equal(1, counts[models.StatusSubmitted])
}

func (s *PostgresStoreSuite) TestTxSharesContext() {
	tx := NewPostgresTx(s.pg.DB)
	c := casetest.NewCase(id.NewUserID(), models.CaseTypeIndividual)

	err := tx.RunInTx(s.ctx, func(txCtx context.Context) error {
		if err := s.store.Create(txCtx, c); err != nil {
			return err
		}
		return sentinel.ErrInvalidState
	})
	s.ErrorIs(err, sentinel.ErrInvalidState)

	_, err = s.store.FindByID(s.ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
