// Package casetest provides profiles and cases for tests across the
// casework and verification packages.
package casetest

import (
	"time"

	"verifyflow/internal/casework/models"
	id "verifyflow/pkg/domain"
)

// Now is the reference clock used by fixtures.
var Now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ValidIndividual returns a profile that passes every individual rule.
func ValidIndividual() *models.IndividualProfile {
	return &models.IndividualProfile{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		DateOfBirth:   "1990-12-10",
		Nationality:   "GB",
		Email:         "ada@example.com",
		PhoneNumber:   "+44 20 7946 0958",
		AddressLine1:  "12 St James's Square",
		City:          "London",
		StateProvince: "Greater London",
		PostalCode:    "SW1Y 4LB",
		Country:       "UK",
		Occupation:    "Engineer",
	}
}

// ValidOwner returns an owner row that passes every owner rule.
func ValidOwner(first string, percentage string) models.BeneficialOwner {
	return models.BeneficialOwner{
		FirstName:           first,
		LastName:            "Hopper",
		DateOfBirth:         "1980-01-15",
		Nationality:         "US",
		OwnershipPercentage: percentage,
		PositionTitle:       "Director",
	}
}

// ValidBusiness returns a business profile without owners that passes every
// business rule.
func ValidBusiness() *models.BusinessProfile {
	return &models.BusinessProfile{
		BusinessName:               "Acme",
		LegalBusinessName:          "Acme Holdings LLC",
		BusinessRegistrationNumber: "REG-12345",
		TaxIdentificationNumber:    "12-3456789",
		IncorporationDate:          "2015-04-01",
		BusinessType:               "llc",
		IndustrySector:             "Manufacturing",
		BusinessEmail:              "ops@acme.example",
		BusinessPhone:              "(415) 555-0100",
		BusinessWebsite:            "https://acme.example",
		BusinessAddressLine1:       "1 Market St",
		BusinessCity:               "San Francisco",
		BusinessStateProvince:      "CA",
		BusinessPostalCode:         "94107",
		BusinessCountry:            "US",
	}
}

// NewCase returns a draft case of caseType owned by userID, created at Now.
func NewCase(userID id.UserID, caseType models.CaseType) *models.Case {
	c, err := models.NewCase(id.NewCaseID(), userID, caseType, Now)
	if err != nil {
		panic(err)
	}
	return c
}

// Document returns pending document metadata for caseID.
func Document(caseID id.CaseID, docType models.DocumentType) models.Document {
	return models.Document{
		ID:               id.NewDocumentID(),
		CaseID:           caseID,
		DocumentType:     docType,
		OriginalFilename: string(docType) + ".pdf",
		MediaType:        "application/pdf",
		SizeBytes:        2048,
		Status:           models.DocumentPending,
		UploadedAt:       Now,
	}
}
