package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"verifyflow/internal/casework/casetest"
	"verifyflow/internal/casework/engine/mocks"
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/review"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/testutil"
)

type CaseHandlerSuite struct {
	suite.Suite
	svc      *mocks.MockVerificationService
	router   chi.Router
	userID   id.UserID
	reviewer id.UserID
}

func TestCaseHandlerSuite(t *testing.T) {
	suite.Run(t, new(CaseHandlerSuite))
}

func (s *CaseHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.svc = mocks.NewMockVerificationService(ctrl)
	h := New(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil)), 1<<20)
	s.router = chi.NewRouter()
	h.Register(s.router)
	s.userID = id.NewUserID()
	s.reviewer = id.NewUserID()
}

func (s *CaseHandlerSuite) applicantSession() ports.Session {
	return ports.Session{Token: "test-token", UserID: s.userID, Role: workflow.ActorApplicant}
}

func (s *CaseHandlerSuite) reviewerSession() ports.Session {
	return ports.Session{Token: "test-token", UserID: s.reviewer, Role: workflow.ActorReviewer}
}

func (s *CaseHandlerSuite) asApplicant(req *http.Request) *http.Request {
	return testutil.WithAuth(req, s.userID, string(workflow.ActorApplicant))
}

func (s *CaseHandlerSuite) asReviewer(req *http.Request) *http.Request {
	return testutil.WithAuth(req, s.reviewer, string(workflow.ActorReviewer))
}

func (s *CaseHandlerSuite) TestCreateCase() {
	s.Run("created", func() {
		c := casetest.NewCase(s.userID, models.CaseTypeBusiness)
		s.svc.EXPECT().CreateCase(gomock.Any(), s.applicantSession(), models.CaseTypeBusiness).Return(c, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/applications", map[string]string{"application_type": "business"})
		rr := testutil.DoRequest(s.router, s.asApplicant(req))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		got := testutil.UnmarshalResponse[models.Case](s.T(), rr)
		s.Equal(c.ID, got.ID)
		s.Equal(models.CaseTypeBusiness, got.CaseType)
	})

	s.Run("unknown type rejected before the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/applications", map[string]string{"application_type": "trust"})
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("malformed json", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/applications", bytes.NewBufferString("{"))
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *CaseHandlerSuite) TestGetCase() {
	c := casetest.NewCase(s.userID, models.CaseTypeIndividual)

	s.Run("found", func() {
		s.svc.EXPECT().GetCase(gomock.Any(), s.applicantSession(), c.ID).Return(c, nil)
		rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/"+c.ID.String())))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "status", "draft")
	})

	s.Run("not found", func() {
		s.svc.EXPECT().GetCase(gomock.Any(), gomock.Any(), c.ID).Return(nil, dErrors.New(dErrors.CodeNotFound, "case not found"))
		rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/"+c.ID.String())))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.Run("bad id", func() {
		rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/nope")))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("complete case", func() {
		full := c.Clone()
		full.Documents = []models.Document{casetest.Document(c.ID, models.DocPassport)}
		s.svc.EXPECT().GetCompleteCase(gomock.Any(), gomock.Any(), c.ID).Return(full, nil)
		rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/"+c.ID.String()+"/complete")))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.Case](s.T(), rr)
		s.Len(got.Documents, 1)
	})
}

func (s *CaseHandlerSuite) TestSaveProfile() {
	c := casetest.NewCase(s.userID, models.CaseTypeIndividual)
	body, err := json.Marshal(casetest.ValidIndividual())
	s.Require().NoError(err)

	s.Run("decodes the stored variant and passes If-Match", func() {
		saved := c.Clone()
		saved.Version = 4
		s.svc.EXPECT().GetCase(gomock.Any(), gomock.Any(), c.ID).Return(c, nil)
		s.svc.EXPECT().SaveProfile(gomock.Any(), s.applicantSession(), c.ID, gomock.Any(), int64(3)).
			DoAndReturn(func(_ any, _ ports.Session, _ id.CaseID, p models.Profile, _ int64) (*models.Case, error) {
				ip, ok := p.(*models.IndividualProfile)
				s.Require().True(ok)
				s.Equal("Ada", ip.FirstName)
				return saved, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/api/profiles/"+c.ID.String(), bytes.NewReader(body))
		req.Header.Set("If-Match", `"3"`)
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal("4", rr.Header().Get("ETag"))
	})

	s.Run("bad If-Match", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/profiles/"+c.ID.String(), bytes.NewReader(body))
		req.Header.Set("If-Match", "abc")
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("stale version conflict", func() {
		s.svc.EXPECT().GetCase(gomock.Any(), gomock.Any(), c.ID).Return(c, nil)
		s.svc.EXPECT().SaveProfile(gomock.Any(), gomock.Any(), c.ID, gomock.Any(), int64(1)).
			Return(nil, dErrors.New(dErrors.CodeConflict, "case version is 2, not 1"))
		req := httptest.NewRequest(http.MethodPost, "/api/profiles/"+c.ID.String(), bytes.NewReader(body))
		req.Header.Set("If-Match", "1")
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})

	s.Run("get profile", func() {
		withProfile := c.Clone()
		s.Require().NoError(withProfile.SetProfile(casetest.ValidIndividual()))
		s.svc.EXPECT().GetCase(gomock.Any(), gomock.Any(), c.ID).Return(withProfile, nil)
		rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/api/profiles/"+c.ID.String())))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "first_name", "Ada")
	})
}

func (s *CaseHandlerSuite) TestSubmitValidationFailure() {
	c := casetest.NewCase(s.userID, models.CaseTypeIndividual)
	fields := dErrors.FieldErrors{{FieldPath: "first_name", Message: "First name is required"}}
	s.svc.EXPECT().SubmitCase(gomock.Any(), gomock.Any(), c.ID).
		Return(nil, dErrors.Wrap(fields, dErrors.CodeValidation, "case is not ready for submission"))

	rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodPut, "/api/applications/"+c.ID.String()+"/submit")))
	testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("case is not ready for submission", body.ErrorDescription)
	s.Equal([]dErrors.FieldError(fields), body.Fields)
}

func multipartUpload(s *CaseHandlerSuite, caseID, docType, filename, mediaType string, content []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("application_id", caseID))
	s.Require().NoError(mw.WriteField("document_type", docType))
	if filename != "" {
		part := textproto.MIMEHeader{}
		part.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		part.Set("Content-Type", mediaType)
		fw, err := mw.CreatePart(part)
		s.Require().NoError(err)
		_, err = fw.Write(content)
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *CaseHandlerSuite) TestUpload() {
	caseID := id.NewCaseID()

	s.Run("file metadata reaches the service", func() {
		doc := casetest.Document(caseID, models.DocPassport)
		s.svc.EXPECT().UploadDocument(gomock.Any(), s.applicantSession(), caseID, gomock.Any()).
			DoAndReturn(func(_ any, _ ports.Session, _ id.CaseID, up ports.Upload) (*models.Document, error) {
				s.Equal(models.DocPassport, up.DocumentType)
				s.Equal("passport.pdf", up.File.Filename)
				s.Equal("application/pdf", up.File.MediaType)
				s.Equal(int64(8), up.File.SizeBytes)
				s.NotNil(up.Content)
				return &doc, nil
			})
		req := multipartUpload(s, caseID.String(), "passport", "passport.pdf", "application/pdf", []byte("%PDF-1.7"))
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	})

	s.Run("missing file still reaches the service", func() {
		s.svc.EXPECT().UploadDocument(gomock.Any(), gomock.Any(), caseID, ports.Upload{DocumentType: models.DocPassport}).
			Return(nil, dErrors.Wrap(dErrors.FieldErrors{{FieldPath: "file", Message: "File is required"}}, dErrors.CodeValidation, "file: File is required"))
		req := multipartUpload(s, caseID.String(), "passport", "", "", nil)
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
	})

	s.Run("oversized body", func() {
		big := make([]byte, 3<<20)
		req := multipartUpload(s, caseID.String(), "passport", "scan.pdf", "application/pdf", big)
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.True(dErrors.FieldErrors(body.Fields).Has("file"))
	})

	s.Run("bad case id", func() {
		req := multipartUpload(s, "nope", "passport", "p.pdf", "application/pdf", []byte("x"))
		rr := testutil.DoRequest(s.router, s.asApplicant(req))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *CaseHandlerSuite) TestDocumentsListAndDelete() {
	c := casetest.NewCase(s.userID, models.CaseTypeIndividual)
	doc := casetest.Document(c.ID, models.DocPassport)
	full := c.Clone()
	full.Documents = []models.Document{doc}

	s.svc.EXPECT().GetCompleteCase(gomock.Any(), gomock.Any(), c.ID).Return(full, nil)
	rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/api/documents/application/"+c.ID.String())))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	list := testutil.UnmarshalResponse[documentList](s.T(), rr)
	s.Equal([]models.Document{doc}, list.Documents)

	s.svc.EXPECT().DeleteDocument(gomock.Any(), gomock.Any(), doc.ID).Return(nil)
	rr = testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodDelete, "/api/documents/"+doc.ID.String())))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	s.Zero(rr.Body.Len())
}

func (s *CaseHandlerSuite) TestListForUser() {
	c := casetest.NewCase(s.userID, models.CaseTypeIndividual)
	s.svc.EXPECT().ListCasesForUser(gomock.Any(), gomock.Any(), s.userID).Return([]*models.Case{c}, nil)
	rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/user/"+s.userID.String())))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	list := testutil.UnmarshalResponse[caseList](s.T(), rr)
	s.Len(list.Applications, 1)
}

func (s *CaseHandlerSuite) TestAdminRoutes() {
	c := casetest.NewCase(s.userID, models.CaseTypeIndividual)

	s.Run("pending", func() {
		s.svc.EXPECT().ListPendingCases(gomock.Any(), s.reviewerSession()).Return([]*models.Case{}, nil)
		rr := testutil.DoRequest(s.router, s.asReviewer(testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/applications/pending")))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`{"applications":[]}`, rr.Body.String())
	})

	s.Run("claim", func() {
		s.svc.EXPECT().ClaimCase(gomock.Any(), s.reviewerSession(), c.ID).Return(c, nil)
		rr := testutil.DoRequest(s.router, s.asReviewer(testutil.NewRequest(s.T(), http.MethodPost, "/api/admin/applications/"+c.ID.String()+"/claim")))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("review", func() {
		risk := models.RiskHigh
		in := review.Input{Decision: models.DecisionRejected, Notes: "mismatch", RiskLevel: &risk}
		s.svc.EXPECT().ReviewCase(gomock.Any(), s.reviewerSession(), c.ID, in).Return(c, nil)
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/admin/applications/"+c.ID.String()+"/review",
			map[string]string{"status": "rejected", "review_notes": "mismatch", "risk_level": "high"})
		rr := testutil.DoRequest(s.router, s.asReviewer(req))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("review without decision", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/admin/applications/"+c.ID.String()+"/review",
			map[string]string{"review_notes": "?"})
		rr := testutil.DoRequest(s.router, s.asReviewer(req))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})

	s.Run("dashboard forbidden for applicants", func() {
		s.svc.EXPECT().DashboardStats(gomock.Any(), s.applicantSession()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "reviewer role required"))
		rr := testutil.DoRequest(s.router, s.asApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/dashboard")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	s.Run("dashboard", func() {
		s.svc.EXPECT().DashboardStats(gomock.Any(), gomock.Any()).
			Return(&models.DashboardStats{TotalApplications: 3, PendingReview: 2, Approved: 1}, nil)
		rr := testutil.DoRequest(s.router, s.asReviewer(testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/dashboard")))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "pending_review", float64(2))
	})
}

func TestParseIfMatch(t *testing.T) {
	cases := map[string]int64{"": 0, "*": 0, "7": 7, `"7"`: 7, `W/"9"`: 9}
	for header, want := range cases {
		got, err := parseIfMatch(header)
		if err != nil || got != want {
			t.Fatalf("parseIfMatch(%q) = %d, %v; want %d", header, got, err, want)
		}
	}
	if _, err := parseIfMatch("-1"); err == nil {
		t.Fatal("negative version accepted")
	}
}
