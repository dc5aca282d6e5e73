// Package documents declares the accepted document kinds and decides
// whether an uploaded file may join a case.
package documents

import (
	"strconv"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/validation"
	dErrors "verifyflow/pkg/domain-errors"
)

var acceptedTypes = []models.DocumentType{
	models.DocPassport,
	models.DocNationalID,
	models.DocDriverLicense,
	models.DocBirthCertificate,
	models.DocProofOfAddress,
	models.DocBankStatement,
	models.DocTaxDocument,
	models.DocIncorporationCertificate,
	models.DocBusinessLicense,
}

// AcceptedTypes lists document kinds in display order.
func AcceptedTypes() []models.DocumentType {
	out := make([]models.DocumentType, len(acceptedTypes))
	copy(out, acceptedTypes)
	return out
}

func IsAccepted(t models.DocumentType) bool {
	for _, a := range acceptedTypes {
		if a == t {
			return true
		}
	}
	return false
}

func ParseDocumentType(s string) (models.DocumentType, error) {
	t := models.DocumentType(s)
	if !IsAccepted(t) {
		return "", fieldError("document_type", "Unsupported document type: "+s)
	}
	return t, nil
}

// Policy holds the upload ceiling and the optional minimum-document rule.
type Policy struct {
	MaxFileBytes int64
	// RequireMinimum gates submission on Minimum documents per case type.
	RequireMinimum bool
	Minimum        map[models.CaseType]int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxFileBytes: validation.DefaultMaxFileBytes,
		Minimum: map[models.CaseType]int{
			models.CaseTypeIndividual: 2,
			models.CaseTypeBusiness:   3,
		},
	}
}

// Accept checks the document kind and the file before it joins a case.
// A nil file is reported as missing.
func (p Policy) Accept(docType models.DocumentType, f *models.File) error {
	if !IsAccepted(docType) {
		return fieldError("document_type", "Unsupported document type: "+string(docType))
	}
	var err error
	if f == nil {
		err = validation.File("", 0, false, p.MaxFileBytes)
	} else {
		err = validation.File(f.MediaType, f.SizeBytes, true, p.MaxFileBytes)
	}
	if err != nil {
		return fieldError("file", err.Error())
	}
	return nil
}

// CheckMinimum reports a shortfall against the minimum document count. It
// returns nothing unless RequireMinimum is set.
func (p Policy) CheckMinimum(c *models.Case) models.ValidationErrors {
	if !p.RequireMinimum {
		return nil
	}
	need := p.Minimum[c.CaseType]
	if len(c.Documents) >= need {
		return nil
	}
	return models.ValidationErrors{{
		FieldPath: "documents",
		Message:   "At least " + strconv.Itoa(need) + " documents are required",
	}}
}

func fieldError(path, msg string) error {
	return dErrors.Wrap(models.ValidationErrors{{FieldPath: path, Message: msg}}, dErrors.CodeValidation, msg)
}
