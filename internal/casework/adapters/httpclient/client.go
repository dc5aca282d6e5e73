// Package httpclient talks to the Verification Service and Identity Provider
// over their JSON REST API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/review"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/platform/httputil"
)

var (
	_ ports.VerificationService = (*Client)(nil)
	_ ports.IdentityProvider    = (*Client)(nil)
)

// Client implements both collaborator ports against one base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, for tests and custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type createCaseRequest struct {
	ApplicationType models.CaseType `json:"application_type"`
}

type caseList struct {
	Applications []*models.Case `json:"applications"`
}

type documentList struct {
	Documents []models.Document `json:"documents"`
}

func (c *Client) CreateCase(ctx context.Context, sess ports.Session, caseType models.CaseType) (*models.Case, error) {
	var out models.Case
	if err := c.doJSON(ctx, sess, http.MethodPost, "/api/applications", createCaseRequest{ApplicationType: caseType}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (*models.Case, error) {
	var out models.Case
	if err := c.doJSON(ctx, sess, http.MethodGet, "/api/applications/"+caseID.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCompleteCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (*models.Case, error) {
	var out models.Case
	if err := c.doJSON(ctx, sess, http.MethodGet, "/api/applications/"+caseID.String()+"/complete", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveProfile(ctx context.Context, sess ports.Session, caseID id.CaseID, profile models.Profile, expectedVersion int64) (*models.Case, error) {
	headers := http.Header{}
	if expectedVersion > 0 {
		headers.Set("If-Match", strconv.FormatInt(expectedVersion, 10))
	}
	var out models.Case
	if err := c.doJSON(ctx, sess, http.MethodPost, "/api/profiles/"+caseID.String(), profile, headers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (*models.Case, error) {
	var out models.Case
	if err := c.doJSON(ctx, sess, http.MethodPut, "/api/applications/"+caseID.String()+"/submit", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadDocument sends a multipart form with application_id, document_type
// and file parts.
func (c *Client) UploadDocument(ctx context.Context, sess ports.Session, caseID id.CaseID, upload ports.Upload) (*models.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("application_id", caseID.String()); err != nil {
		return nil, transportError(err)
	}
	if err := mw.WriteField("document_type", string(upload.DocumentType)); err != nil {
		return nil, transportError(err)
	}
	part := textproto.MIMEHeader{}
	part.Set("Content-Disposition", `form-data; name="file"; filename="`+quoteEscaper.Replace(upload.File.Filename)+`"`)
	part.Set("Content-Type", upload.File.MediaType)
	fw, err := mw.CreatePart(part)
	if err != nil {
		return nil, transportError(err)
	}
	if upload.Content != nil {
		if _, err := io.Copy(fw, upload.Content); err != nil {
			return nil, transportError(err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, transportError(err)
	}

	req, err := c.newRequest(ctx, sess, http.MethodPost, "/api/documents/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out models.Document
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDocument(ctx context.Context, sess ports.Session, documentID id.DocumentID) error {
	return c.doJSON(ctx, sess, http.MethodDelete, "/api/documents/"+documentID.String(), nil, nil, nil)
}

// ListDocuments returns the document metadata of one case.
func (c *Client) ListDocuments(ctx context.Context, sess ports.Session, caseID id.CaseID) ([]models.Document, error) {
	var out documentList
	if err := c.doJSON(ctx, sess, http.MethodGet, "/api/documents/application/"+caseID.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

func (c *Client) ListCasesForUser(ctx context.Context, sess ports.Session, userID id.UserID) ([]*models.Case, error) {
	var out caseList
	if err := c.doJSON(ctx, sess, http.MethodGet, "/api/applications/user/"+userID.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Applications, nil
}

func (c *Client) ListPendingCases(ctx context.Context, sess ports.Session) ([]*models.Case, error) {
	var out caseList
	if err := c.doJSON(ctx, sess, http.MethodGet, "/api/admin/applications/pending", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Applications, nil
}

func (c *Client) ClaimCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (*models.Case, error) {
	var out models.Case
	if err := c.doJSON(ctx, sess, http.MethodPost, "/api/admin/applications/"+caseID.String()+"/claim", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReviewCase(ctx context.Context, sess ports.Session, caseID id.CaseID, in review.Input) (*models.Case, error) {
	var out models.Case
	if err := c.doJSON(ctx, sess, http.MethodPut, "/api/admin/applications/"+caseID.String()+"/review", in, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardStats(ctx context.Context, sess ports.Session) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.doJSON(ctx, sess, http.MethodGet, "/api/admin/dashboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg ports.Registration) (*ports.Session, error) {
	var out ports.Session
	if err := c.doJSON(ctx, ports.Session{}, http.MethodPost, "/api/auth/register", reg, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*ports.Session, error) {
	var out ports.Session
	if err := c.doJSON(ctx, ports.Session{}, http.MethodPost, "/api/auth/login", creds, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate asks the provider who a token belongs to.
func (c *Client) Validate(ctx context.Context, token string) (*ports.Session, error) {
	var out ports.Session
	if err := c.doJSON(ctx, ports.Session{Token: token}, http.MethodGet, "/api/auth/session", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, sess ports.Session) error {
	return c.doJSON(ctx, sess, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, sess ports.Session, method, path string, body any, headers http.Header, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return transportError(err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, sess, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, sess ports.Session, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ports.ServiceError{
			Reason: "invalid response from service: " + err.Error(),
			Status: resp.StatusCode,
			Code:   dErrors.CodeInternal,
		}
	}
	return nil
}

// decodeError keeps the service's description as the reason. Bodies that are
// not the JSON error shape fall back to the status text.
func decodeError(status int, raw []byte) error {
	var body httputil.ErrorBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		return &ports.ServiceError{
			Reason: http.StatusText(status),
			Status: status,
			Code:   httputil.CodeFor(status),
		}
	}
	reason := body.ErrorDescription
	if reason == "" {
		reason = body.Error
	}
	return &ports.ServiceError{
		Reason: reason,
		Status: status,
		Code:   dErrors.Code(body.Error),
		Fields: body.Fields,
	}
}

// transportError reports failures where no response was received.
func transportError(err error) error {
	return &ports.ServiceError{
		Reason: err.Error(),
		Code:   dErrors.CodeUnavailable,
	}
}
