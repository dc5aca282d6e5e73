package engine

//go:generate mockgen -source=../ports/ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"verifyflow/internal/casework/aggregate"
	"verifyflow/internal/casework/casetest"
	"verifyflow/internal/casework/engine/mocks"
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/review"
	"verifyflow/internal/casework/schema"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
)

type EngineSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	svc       *mocks.MockVerificationService
	engine    *Engine
	applicant ports.Session
	reviewer  ports.Session
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svc = mocks.NewMockVerificationService(s.ctrl)
	s.engine = New(s.svc, aggregate.NewEvaluator(schema.NewRegistry()),
		WithClock(func() time.Time { return casetest.Now }))
	s.applicant = ports.Session{Token: "t-app", UserID: id.NewUserID(), Role: workflow.ActorApplicant}
	s.reviewer = ports.Session{Token: "t-rev", UserID: id.NewUserID(), Role: workflow.ActorReviewer}
}

func (s *EngineSuite) draft(caseType models.CaseType) *models.Case {
	return casetest.NewCase(s.applicant.UserID, caseType)
}

func (s *EngineSuite) TestCreateCaseRefetchesCompleteCase() {
	ctx := context.Background()
	created := s.draft(models.CaseTypeIndividual)
	full := created.Clone()
	full.Documents = []models.Document{casetest.Document(created.ID, models.DocPassport)}

	gomock.InOrder(
		s.svc.EXPECT().CreateCase(ctx, s.applicant, models.CaseTypeIndividual).Return(created, nil),
		s.svc.EXPECT().GetCompleteCase(ctx, s.applicant, created.ID).Return(full, nil),
	)

	got, err := s.engine.CreateCase(ctx, s.applicant, models.CaseTypeIndividual)
	s.Require().NoError(err)
	s.Equal(10, got.CompletionPercentage, "completion recomputed on the fetched snapshot")
	s.Len(got.Documents, 1)
}

func (s *EngineSuite) TestCreateCaseGuards() {
	ctx := context.Background()
	s.Run("unknown type never reaches the service", func() {
		_, err := s.engine.CreateCase(ctx, s.applicant, models.CaseType("trust"))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
	s.Run("reviewer cannot open a case", func() {
		_, err := s.engine.CreateCase(ctx, s.reviewer, models.CaseTypeIndividual)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
	s.Run("missing session", func() {
		_, err := s.engine.CreateCase(ctx, ports.Session{}, models.CaseTypeIndividual)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *EngineSuite) TestSaveProfile() {
	ctx := context.Background()

	s.Run("passes the snapshot version and refetches", func() {
		snap := s.draft(models.CaseTypeIndividual)
		snap.Version = 4
		profile := &models.IndividualProfile{FirstName: "Ada"}
		saved := snap.Clone()
		s.Require().NoError(saved.SetProfile(profile))

		s.svc.EXPECT().SaveProfile(ctx, s.applicant, snap.ID, profile, int64(4)).Return(saved, nil)
		s.svc.EXPECT().GetCompleteCase(ctx, s.applicant, snap.ID).Return(saved, nil)

		got, err := s.engine.SaveProfile(ctx, s.applicant, snap, profile)
		s.Require().NoError(err)
		s.Equal(6, got.CompletionPercentage)
	})

	s.Run("rejected under review regardless of payload", func() {
		snap := s.draft(models.CaseTypeIndividual)
		snap.Status = models.StatusUnderReview
		_, err := s.engine.SaveProfile(ctx, s.applicant, snap, casetest.ValidIndividual())
		s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))
	})

	s.Run("variant mismatch", func() {
		snap := s.draft(models.CaseTypeIndividual)
		_, err := s.engine.SaveProfile(ctx, s.applicant, snap, casetest.ValidBusiness())
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *EngineSuite) TestSubmit() {
	ctx := context.Background()

	s.Run("invalid profile blocks the call", func() {
		snap := s.draft(models.CaseTypeIndividual)
		p := casetest.ValidIndividual()
		p.Email = ""
		s.Require().NoError(snap.SetProfile(p))

		_, err := s.engine.Submit(ctx, s.applicant, snap)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal([]string{"email"}, dErrors.FieldsOf(err).Paths())
	})

	s.Run("valid profile submits and refetches", func() {
		snap := s.draft(models.CaseTypeIndividual)
		s.Require().NoError(snap.SetProfile(casetest.ValidIndividual()))
		after := snap.Clone()
		after.Status = models.StatusSubmitted

		s.svc.EXPECT().SubmitCase(ctx, s.applicant, snap.ID).Return(after, nil)
		s.svc.EXPECT().GetCompleteCase(ctx, s.applicant, snap.ID).Return(after, nil)

		got, err := s.engine.Submit(ctx, s.applicant, snap)
		s.Require().NoError(err)
		s.Equal(models.StatusSubmitted, got.Status)
	})

	s.Run("collaborator error returned untouched", func() {
		snap := s.draft(models.CaseTypeIndividual)
		s.Require().NoError(snap.SetProfile(casetest.ValidIndividual()))
		svcErr := &ports.ServiceError{Reason: "connection reset by peer", Status: 0}

		s.svc.EXPECT().SubmitCase(ctx, s.applicant, snap.ID).Return(nil, svcErr)

		_, err := s.engine.Submit(ctx, s.applicant, snap)
		s.Same(svcErr, err)
	})
}

func (s *EngineSuite) TestUploadDocument() {
	ctx := context.Background()
	upload := ports.Upload{
		DocumentType: models.DocPassport,
		File:         models.File{Filename: "passport.pdf", MediaType: "application/pdf", SizeBytes: 1024},
	}

	s.Run("rejected while under review", func() {
		snap := s.draft(models.CaseTypeIndividual)
		snap.Status = models.StatusUnderReview
		_, err := s.engine.UploadDocument(ctx, s.applicant, snap, upload)
		s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))
	})

	s.Run("unacceptable file", func() {
		snap := s.draft(models.CaseTypeIndividual)
		bad := upload
		bad.File.MediaType = "text/html"
		_, err := s.engine.UploadDocument(ctx, s.applicant, snap, bad)
		s.True(dErrors.FieldsOf(err).Has("file"))
	})

	s.Run("accepted file", func() {
		snap := s.draft(models.CaseTypeIndividual)
		doc := casetest.Document(snap.ID, models.DocPassport)
		after := snap.Clone()
		after.Documents = append(after.Documents, doc)

		s.svc.EXPECT().UploadDocument(ctx, s.applicant, snap.ID, upload).Return(&doc, nil)
		s.svc.EXPECT().GetCompleteCase(ctx, s.applicant, snap.ID).Return(after, nil)

		got, err := s.engine.UploadDocument(ctx, s.applicant, snap, upload)
		s.Require().NoError(err)
		s.Len(got.Documents, 1)
	})
}

func (s *EngineSuite) TestDeleteDocument() {
	ctx := context.Background()
	snap := s.draft(models.CaseTypeIndividual)
	doc := casetest.Document(snap.ID, models.DocPassport)
	snap.Documents = []models.Document{doc}

	s.Run("unknown document", func() {
		_, err := s.engine.DeleteDocument(ctx, s.applicant, snap, id.NewDocumentID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("deletes and refetches", func() {
		after := snap.Clone()
		after.Documents = nil
		s.svc.EXPECT().DeleteDocument(ctx, s.applicant, doc.ID).Return(nil)
		s.svc.EXPECT().GetCompleteCase(ctx, s.applicant, snap.ID).Return(after, nil)

		got, err := s.engine.DeleteDocument(ctx, s.applicant, snap, doc.ID)
		s.Require().NoError(err)
		s.Empty(got.Documents)
	})
}

func (s *EngineSuite) TestReview() {
	ctx := context.Background()
	approve := review.Input{Decision: models.DecisionApproved, Notes: "ok"}

	s.Run("applicant cannot review", func() {
		snap := s.draft(models.CaseTypeIndividual)
		snap.Status = models.StatusUnderReview
		_, err := s.engine.Review(ctx, s.applicant, snap, approve)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("draft cannot be reviewed", func() {
		snap := s.draft(models.CaseTypeIndividual)
		_, err := s.engine.Review(ctx, s.reviewer, snap, approve)
		s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))
	})

	s.Run("decision is mandatory", func() {
		snap := s.draft(models.CaseTypeIndividual)
		snap.Status = models.StatusSubmitted
		_, err := s.engine.Review(ctx, s.reviewer, snap, review.Input{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("submitted case reviewed directly", func() {
		snap := s.draft(models.CaseTypeIndividual)
		snap.Status = models.StatusSubmitted
		after := snap.Clone()
		after.Status = models.StatusApproved

		s.svc.EXPECT().ReviewCase(ctx, s.reviewer, snap.ID, approve).Return(after, nil)
		s.svc.EXPECT().GetCompleteCase(ctx, s.reviewer, snap.ID).Return(after, nil)

		got, err := s.engine.Review(ctx, s.reviewer, snap, approve)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, got.Status)
	})
}

func (s *EngineSuite) TestClaim() {
	ctx := context.Background()
	snap := s.draft(models.CaseTypeBusiness)
	snap.Status = models.StatusSubmitted
	after := snap.Clone()
	after.Status = models.StatusUnderReview

	s.svc.EXPECT().ClaimCase(ctx, s.reviewer, snap.ID).Return(after, nil)
	s.svc.EXPECT().GetCompleteCase(ctx, s.reviewer, snap.ID).Return(after, nil)

	got, err := s.engine.Claim(ctx, s.reviewer, snap)
	s.Require().NoError(err)
	s.Equal(models.StatusUnderReview, got.Status)

	_, err = s.engine.Claim(ctx, s.applicant, snap)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *EngineSuite) TestReviewerQueries() {
	ctx := context.Background()

	s.Run("applicant is forbidden", func() {
		_, err := s.engine.ListPending(ctx, s.applicant)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		_, err = s.engine.DashboardStats(ctx, s.applicant)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("reviewer sees pending and stats", func() {
		pending := s.draft(models.CaseTypeIndividual)
		pending.Status = models.StatusSubmitted
		s.svc.EXPECT().ListPendingCases(ctx, s.reviewer).Return([]*models.Case{pending}, nil)
		s.svc.EXPECT().DashboardStats(ctx, s.reviewer).Return(&models.DashboardStats{TotalApplications: 1, PendingReview: 1}, nil)

		cases, err := s.engine.ListPending(ctx, s.reviewer)
		s.Require().NoError(err)
		s.Len(cases, 1)

		stats, err := s.engine.DashboardStats(ctx, s.reviewer)
		s.Require().NoError(err)
		s.Equal(1, stats.PendingReview)
	})
}

func (s *EngineSuite) TestListMyCasesUsesSessionUser() {
	ctx := context.Background()
	c := s.draft(models.CaseTypeIndividual)
	s.Require().NoError(c.SetProfile(casetest.ValidIndividual()))
	s.svc.EXPECT().ListCasesForUser(ctx, s.applicant, s.applicant.UserID).Return([]*models.Case{c}, nil)

	cases, err := s.engine.ListMyCases(ctx, s.applicant)
	s.Require().NoError(err)
	s.Require().Len(cases, 1)
	s.Equal(80, cases[0].CompletionPercentage)
}

func (s *EngineSuite) TestGetCasePropagatesErrors() {
	ctx := context.Background()
	caseID := id.NewCaseID()
	want := errors.New("boom")
	s.svc.EXPECT().GetCase(ctx, s.applicant, caseID).Return(nil, want)

	_, err := s.engine.GetCase(ctx, s.applicant, caseID)
	s.Same(want, err)
}

func (s *EngineSuite) TestComputeCompletionIsIdempotent() {
	c := s.draft(models.CaseTypeIndividual)
	s.Require().NoError(c.SetProfile(casetest.ValidIndividual()))
	s.Equal(s.engine.ComputeCompletion(c), s.engine.ComputeCompletion(c))
}
