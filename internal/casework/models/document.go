package models

import (
	"time"

	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
)

// DocumentType is one of the accepted supporting-document kinds.
type DocumentType string

const (
	DocPassport                 DocumentType = "passport"
	DocNationalID               DocumentType = "national_id"
	DocDriverLicense            DocumentType = "driver_license"
	DocBirthCertificate         DocumentType = "birth_certificate"
	DocProofOfAddress           DocumentType = "proof_of_address"
	DocBankStatement            DocumentType = "bank_statement"
	DocTaxDocument              DocumentType = "tax_document"
	DocIncorporationCertificate DocumentType = "incorporation_certificate"
	DocBusinessLicense          DocumentType = "business_license"
)

// DocumentStatus changes only through reviewer-side verification.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentVerified DocumentStatus = "verified"
	DocumentRejected DocumentStatus = "rejected"
)

func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch st := DocumentStatus(s); st {
	case DocumentPending, DocumentVerified, DocumentRejected:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid document status: "+s)
}

// Document is the metadata of one uploaded file. File bytes are not held here.
type Document struct {
	ID               id.DocumentID  `json:"id"`
	CaseID           id.CaseID      `json:"application_id"`
	DocumentType     DocumentType   `json:"document_type"`
	OriginalFilename string         `json:"original_filename"`
	MediaType        string         `json:"media_type"`
	SizeBytes        int64          `json:"size_bytes"`
	Status           DocumentStatus `json:"status"`
	UploadedAt       time.Time      `json:"uploaded_at"`
}

// File describes an upload candidate as declared by the client.
type File struct {
	Filename  string
	MediaType string
	SizeBytes int64
}
