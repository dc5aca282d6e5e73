package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"verifyflow/internal/casework/models"
	id "verifyflow/pkg/domain"
	"verifyflow/pkg/platform/sentinel"
	txcontext "verifyflow/pkg/platform/tx"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the case tables if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply case schema: %w", err)
	}
	return nil
}

// Postgres persists cases as one row each (profile as JSONB) with document
// metadata in a child table. Execute locks the row with SELECT ... FOR UPDATE.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// inTx joins the transaction already in ctx, or opens one.
func (s *Postgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return txcontext.Run(ctx, s.db, func(_ context.Context, tx *sql.Tx) error {
		return fn(tx)
	})
}

const selectCase = `
	SELECT id, user_id, case_type, status, profile, completion_percentage,
	       risk_level, review, version, created_at, updated_at
	FROM cases`

const selectDocument = `
	SELECT id, case_id, document_type, original_filename, media_type,
	       size_bytes, status, uploaded_at
	FROM case_documents`

func (s *Postgres) Create(ctx context.Context, c *models.Case) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		profile, review, err := encodeCase(c)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cases (id, user_id, case_type, status, profile, completion_percentage,
			                   risk_level, review, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			c.ID.String(), c.UserID.String(), string(c.CaseType), string(c.Status), profile,
			c.CompletionPercentage, riskValue(c.RiskLevel), review, c.Version, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return sentinel.ErrAlreadyUsed
			}
			return fmt.Errorf("insert case: %w", err)
		}
		return syncDocuments(ctx, tx, c)
	})
}

func (s *Postgres) FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	return scanCase(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, selectCase+` WHERE id = $1`, caseID.String()))
}

func (s *Postgres) ListDocuments(ctx context.Context, caseID id.CaseID) ([]models.Document, error) {
	var exists bool
	if err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)`, caseID.String()).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check case: %w", err)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return listDocuments(ctx, txcontext.Conn(ctx, s.db), caseID)
}

func (s *Postgres) FindDocument(ctx context.Context, docID id.DocumentID) (models.Document, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, selectDocument+` WHERE id = $1`, docID.String())
	if err != nil {
		return models.Document{}, fmt.Errorf("query document: %w", err)
	}
	docs, err := scanDocuments(rows)
	if err != nil {
		return models.Document{}, err
	}
	if len(docs) == 0 {
		return models.Document{}, sentinel.ErrNotFound
	}
	return docs[0], nil
}

func (s *Postgres) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Case, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, selectCase+` WHERE user_id = $1 ORDER BY created_at, id`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query cases by user: %w", err)
	}
	return scanCases(rows)
}

func (s *Postgres) ListByStatus(ctx context.Context, statuses ...models.Status) ([]*models.Case, error) {
	raw := make([]string, len(statuses))
	for i, st := range statuses {
		raw[i] = string(st)
	}
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, selectCase+` WHERE status = ANY($1) ORDER BY created_at, id`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("query cases by status: %w", err)
	}
	return scanCases(rows)
}

func (s *Postgres) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `SELECT status, COUNT(*) FROM cases GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}
	defer rows.Close()
	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}

// Execute locks the case row, loads its documents, and runs validate then
// mutate inside one transaction. Nothing is written if validate fails.
func (s *Postgres) Execute(ctx context.Context, caseID id.CaseID, validate func(*models.Case) error, mutate func(*models.Case)) (*models.Case, error) {
	var out *models.Case
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		c, err := scanCase(tx.QueryRowContext(ctx, selectCase+` WHERE id = $1 FOR UPDATE`, caseID.String()))
		if err != nil {
			return err
		}
		if c.Documents, err = listDocuments(ctx, tx, caseID); err != nil {
			return err
		}
		if err := validate(c); err != nil {
			return err
		}
		mutate(c)

		profile, review, err := encodeCase(c)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE cases
			SET status = $2, profile = $3, completion_percentage = $4, risk_level = $5,
			    review = $6, version = $7, updated_at = $8
			WHERE id = $1`,
			c.ID.String(), string(c.Status), profile, c.CompletionPercentage,
			riskValue(c.RiskLevel), review, c.Version, c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update case: %w", err)
		}
		if err := syncDocuments(ctx, tx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// syncDocuments makes the child table match c.Documents.
func syncDocuments(ctx context.Context, tx *sql.Tx, c *models.Case) error {
	keep := make([]string, len(c.Documents))
	for i, d := range c.Documents {
		keep[i] = d.ID.String()
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM case_documents WHERE case_id = $1 AND NOT (id = ANY($2::uuid[]))`,
		c.ID.String(), pq.Array(keep),
	); err != nil {
		return fmt.Errorf("prune documents: %w", err)
	}
	for _, d := range c.Documents {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO case_documents (id, case_id, document_type, original_filename,
			                            media_type, size_bytes, status, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
			d.ID.String(), c.ID.String(), string(d.DocumentType), d.OriginalFilename,
			d.MediaType, d.SizeBytes, string(d.Status), d.UploadedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert document: %w", err)
		}
	}
	return nil
}

func listDocuments(ctx context.Context, q txcontext.Querier, caseID id.CaseID) ([]models.Document, error) {
	rows, err := q.QueryContext(ctx, selectDocument+` WHERE case_id = $1 ORDER BY uploaded_at, id`, caseID.String())
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return scanDocuments(rows)
}

func encodeCase(c *models.Case) (profile, review []byte, err error) {
	if profile, err = json.Marshal(c.Profile); err != nil {
		return nil, nil, fmt.Errorf("encode profile: %w", err)
	}
	if c.Review != nil {
		if review, err = json.Marshal(c.Review); err != nil {
			return nil, nil, fmt.Errorf("encode review: %w", err)
		}
	}
	return profile, review, nil
}

func riskValue(r *models.RiskLevel) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*models.Case, error) {
	var (
		caseID, userID     uuid.UUID
		caseType, status   string
		profile, review    []byte
		risk               sql.NullString
		c                  models.Case
	)
	err := row.Scan(&caseID, &userID, &caseType, &status, &profile, &c.CompletionPercentage,
		&risk, &review, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan case: %w", err)
	}

	c.ID = id.CaseID(caseID)
	c.UserID = id.UserID(userID)
	c.CaseType = models.CaseType(caseType)
	c.Status = models.Status(status)
	c.Documents = []models.Document{}
	if c.Profile, err = models.DecodeProfile(c.CaseType, profile); err != nil {
		return nil, fmt.Errorf("decode profile of case %s: %w", c.ID, err)
	}
	if bp, ok := c.Business(); ok {
		bp.EnsureOwnerLocalIDs()
	}
	if risk.Valid {
		rl := models.RiskLevel(risk.String)
		c.RiskLevel = &rl
	}
	if len(review) > 0 {
		c.Review = &models.ReviewRecord{}
		if err := json.Unmarshal(review, c.Review); err != nil {
			return nil, fmt.Errorf("decode review of case %s: %w", c.ID, err)
		}
	}
	return &c, nil
}

func scanCases(rows *sql.Rows) ([]*models.Case, error) {
	defer rows.Close()
	out := make([]*models.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return out, nil
}

func scanDocuments(rows *sql.Rows) ([]models.Document, error) {
	defer rows.Close()
	out := make([]models.Document, 0)
	for rows.Next() {
		var (
			docID, caseID          uuid.UUID
			docType, status        string
			d                      models.Document
		)
		if err := rows.Scan(&docID, &caseID, &docType, &d.OriginalFilename, &d.MediaType,
			&d.SizeBytes, &status, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.ID = id.DocumentID(docID)
		d.CaseID = id.CaseID(caseID)
		d.DocumentType = models.DocumentType(docType)
		d.Status = models.DocumentStatus(status)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// PostgresTx runs service work in one database transaction shared through
// the context, so case writes and audit outbox rows commit together.
type PostgresTx struct {
	db *sql.DB
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db}
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return txcontext.Run(ctx, t.db, func(txCtx context.Context, _ *sql.Tx) error {
		return fn(txCtx)
	})
}
