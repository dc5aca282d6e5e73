package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verifyflow/internal/casework/casetest"
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/platform/httputil"
)

func session() ports.Session {
	return ports.Session{Token: "tok-123", UserID: id.NewUserID(), Role: workflow.ActorApplicant}
}

func TestSaveProfileSendsVersionAndDecodesCase(t *testing.T) {
	c := casetest.NewCase(id.NewUserID(), models.CaseTypeBusiness)
	c.Version = 3

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/profiles/"+c.ID.String(), r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.Header.Get("If-Match"))

		var p models.BusinessProfile
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "Acme", p.BusinessName)

		c.Profile = &p
		httputil.WriteJSON(w, http.StatusOK, c)
	}))
	defer srv.Close()

	got, err := New(srv.URL).SaveProfile(context.Background(), session(), c.ID, &models.BusinessProfile{BusinessName: "Acme"}, 2)
	require.NoError(t, err)
	bp, ok := got.Business()
	require.True(t, ok)
	assert.Equal(t, "Acme", bp.BusinessName)
	assert.Equal(t, int64(3), got.Version)
}

func TestErrorBodyBecomesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, httputil.ErrorBody{
			Error:            string(dErrors.CodeValidation),
			ErrorDescription: "case is not ready for submission",
			Fields:           []dErrors.FieldError{{FieldPath: "email", Message: "Email is required"}},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).SubmitCase(context.Background(), session(), id.NewCaseID())
	require.Error(t, err)
	var se *ports.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "case is not ready for submission", se.Error())
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, []string{"email"}, dErrors.FieldsOf(err).Paths())
}

func TestNonJSONErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetCase(context.Background(), session(), id.NewCaseID())
	require.Error(t, err)
	assert.Equal(t, "Bad Gateway", err.Error())
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).GetCase(context.Background(), session(), id.NewCaseID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestUploadDocumentSendsMultipart(t *testing.T) {
	caseID := id.NewCaseID()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, caseID.String(), r.FormValue("application_id"))
		assert.Equal(t, "passport", r.FormValue("document_type"))
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF-1.7", string(body))
		assert.Equal(t, "passport.pdf", hdr.Filename)
		assert.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))

		httputil.WriteJSON(w, http.StatusCreated, casetest.Document(caseID, models.DocPassport))
	}))
	defer srv.Close()

	doc, err := New(srv.URL).UploadDocument(context.Background(), session(), caseID, ports.Upload{
		DocumentType: models.DocPassport,
		File:         models.File{Filename: "passport.pdf", MediaType: "application/pdf", SizeBytes: 8},
		Content:      strings.NewReader("%PDF-1.7"),
	})
	require.NoError(t, err)
	assert.Equal(t, caseID, doc.CaseID)
}

func TestListEndpointsDecodeEnvelope(t *testing.T) {
	userID := id.NewUserID()
	c := casetest.NewCase(userID, models.CaseTypeIndividual)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/applications/user/"+userID.String(), r.URL.Path)
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"applications": []*models.Case{c}})
	}))
	defer srv.Close()

	cases, err := New(srv.URL).ListCasesForUser(context.Background(), session(), userID)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, c.ID, cases[0].ID)
}
