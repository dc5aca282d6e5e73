package service

import (
	"context"
	"io"
	"slices"
	"time"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
	audit "verifyflow/pkg/platform/audit"
	"verifyflow/pkg/requestcontext"
)

// UploadDocument records document metadata on a draft case. Ownership and
// the workflow state are checked before the file is read or judged, so an
// upload to a case that cannot take one fails the same way for any payload.
// When content is present its measured size replaces the declared one; the
// bytes themselves are discarded.
func (s *Service) UploadDocument(ctx context.Context, sess ports.Session, caseID id.CaseID, upload ports.Upload) (_ *models.Document, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "UploadDocument", caseID)
	defer func() { s.finish(span, "UploadDocument", start, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}
	current, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return nil, storeError(err, "case")
	}
	if err := canEdit(sess, current); err != nil {
		return nil, err
	}
	policy := s.evaluator.Policy()

	var file *models.File
	if upload.Content != nil || upload.File != (models.File{}) {
		f := upload.File
		if upload.Content != nil {
			n, err := io.Copy(io.Discard, io.LimitReader(upload.Content, policy.MaxFileBytes+1))
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read upload")
			}
			f.SizeBytes = n
		}
		file = &f
	}
	if err := policy.Accept(upload.DocumentType, file); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	doc := models.Document{
		ID:               id.NewDocumentID(),
		CaseID:           caseID,
		DocumentType:     upload.DocumentType,
		OriginalFilename: file.Filename,
		MediaType:        file.MediaType,
		SizeBytes:        file.SizeBytes,
		Status:           models.DocumentPending,
		UploadedAt:       now,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.change(txCtx, caseID, func(c *models.Case) error {
			if err := canEdit(sess, c); err != nil {
				return err
			}
			c.Documents = append(c.Documents, doc)
			c.Touch(now)
			s.evaluator.Refresh(c)
			return nil
		})
		if err != nil {
			return err
		}
		return s.emit(txCtx, audit.Event{
			UserID:  c.UserID,
			ActorID: sess.UserID.String(),
			CaseID:  c.ID.String(),
			Action:  string(audit.EventDocumentUploaded),
			Reason:  string(doc.DocumentType),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementUploaded(string(doc.DocumentType))
	}
	s.logger.InfoContext(ctx, "document uploaded",
		"case_id", caseID,
		"document_id", doc.ID,
		"document_type", doc.DocumentType,
		"size_bytes", doc.SizeBytes,
	)
	return &doc, nil
}

// DeleteDocument removes a document from its draft case.
func (s *Service) DeleteDocument(ctx context.Context, sess ports.Session, documentID id.DocumentID) (err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "DeleteDocument", id.CaseID{})
	defer func() { s.finish(span, "DeleteDocument", start, err) }()

	if err := requireSession(sess); err != nil {
		return err
	}
	doc, err := s.store.FindDocument(ctx, documentID)
	if err != nil {
		return storeError(err, "document")
	}
	now := requestcontext.Now(ctx)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.change(txCtx, doc.CaseID, func(c *models.Case) error {
			if err := canEdit(sess, c); err != nil {
				return err
			}
			idx := slices.IndexFunc(c.Documents, func(d models.Document) bool { return d.ID == documentID })
			if idx < 0 {
				return dErrors.New(dErrors.CodeNotFound, "document not found")
			}
			c.Documents = slices.Delete(c.Documents, idx, idx+1)
			c.Touch(now)
			s.evaluator.Refresh(c)
			return nil
		})
		if err != nil {
			return err
		}
		return s.emit(txCtx, audit.Event{
			UserID:  c.UserID,
			ActorID: sess.UserID.String(),
			CaseID:  c.ID.String(),
			Action:  string(audit.EventDocumentDeleted),
			Reason:  string(doc.DocumentType),
		})
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "document deleted",
		"case_id", doc.CaseID,
		"document_id", documentID,
	)
	return nil
}
