package models

import (
	"encoding/json"

	dErrors "verifyflow/pkg/domain-errors"
)

// Profile is the applicant-supplied data of a case. Exactly one variant exists
// per case type and the variant is fixed for the life of the case.
type Profile interface {
	CaseType() CaseType
	// Value returns the raw form value stored at a top-level field path.
	Value(path string) (string, bool)
	Clone() Profile
}

// IndividualProfile holds values exactly as entered; validation is separate.
type IndividualProfile struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	DateOfBirth       string `json:"date_of_birth"`
	Nationality       string `json:"nationality"`
	Email             string `json:"email"`
	PhoneNumber       string `json:"phone_number"`
	AddressLine1      string `json:"address_line1"`
	AddressLine2      string `json:"address_line2"`
	City              string `json:"city"`
	StateProvince     string `json:"state_province"`
	PostalCode        string `json:"postal_code"`
	Country           string `json:"country"`
	Occupation        string `json:"occupation"`
	Employer          string `json:"employer"`
	AnnualIncomeRange string `json:"annual_income_range"`
	PassportNumber    string `json:"passport_number"`
	NationalIDNumber  string `json:"national_id_number"`
}

func (p *IndividualProfile) CaseType() CaseType { return CaseTypeIndividual }

func (p *IndividualProfile) Value(path string) (string, bool) {
	switch path {
	case "first_name":
		return p.FirstName, true
	case "last_name":
		return p.LastName, true
	case "date_of_birth":
		return p.DateOfBirth, true
	case "nationality":
		return p.Nationality, true
	case "email":
		return p.Email, true
	case "phone_number":
		return p.PhoneNumber, true
	case "address_line1":
		return p.AddressLine1, true
	case "address_line2":
		return p.AddressLine2, true
	case "city":
		return p.City, true
	case "state_province":
		return p.StateProvince, true
	case "postal_code":
		return p.PostalCode, true
	case "country":
		return p.Country, true
	case "occupation":
		return p.Occupation, true
	case "employer":
		return p.Employer, true
	case "annual_income_range":
		return p.AnnualIncomeRange, true
	case "passport_number":
		return p.PassportNumber, true
	case "national_id_number":
		return p.NationalIDNumber, true
	}
	return "", false
}

func (p *IndividualProfile) Clone() Profile {
	cp := *p
	return &cp
}

// BusinessProfile carries the company data and its beneficial-owner rows.
type BusinessProfile struct {
	BusinessName               string            `json:"business_name"`
	LegalBusinessName          string            `json:"legal_business_name"`
	BusinessRegistrationNumber string            `json:"business_registration_number"`
	TaxIdentificationNumber    string            `json:"tax_identification_number"`
	IncorporationDate          string            `json:"incorporation_date"`
	BusinessType               string            `json:"business_type"`
	IndustrySector             string            `json:"industry_sector"`
	BusinessEmail              string            `json:"business_email"`
	BusinessPhone              string            `json:"business_phone"`
	BusinessWebsite            string            `json:"business_website"`
	BusinessAddressLine1       string            `json:"business_address_line1"`
	BusinessAddressLine2       string            `json:"business_address_line2"`
	BusinessCity               string            `json:"business_city"`
	BusinessStateProvince      string            `json:"business_state_province"`
	BusinessPostalCode         string            `json:"business_postal_code"`
	BusinessCountry            string            `json:"business_country"`
	NumberOfEmployees          string            `json:"number_of_employees"`
	AnnualRevenueRange         string            `json:"annual_revenue_range"`
	IsPubliclyTraded           bool              `json:"is_publicly_traded"`
	StockSymbol                string            `json:"stock_symbol"`
	BeneficialOwners           []BeneficialOwner `json:"beneficial_owners"`
}

func (p *BusinessProfile) CaseType() CaseType { return CaseTypeBusiness }

func (p *BusinessProfile) Value(path string) (string, bool) {
	switch path {
	case "business_name":
		return p.BusinessName, true
	case "legal_business_name":
		return p.LegalBusinessName, true
	case "business_registration_number":
		return p.BusinessRegistrationNumber, true
	case "tax_identification_number":
		return p.TaxIdentificationNumber, true
	case "incorporation_date":
		return p.IncorporationDate, true
	case "business_type":
		return p.BusinessType, true
	case "industry_sector":
		return p.IndustrySector, true
	case "business_email":
		return p.BusinessEmail, true
	case "business_phone":
		return p.BusinessPhone, true
	case "business_website":
		return p.BusinessWebsite, true
	case "business_address_line1":
		return p.BusinessAddressLine1, true
	case "business_address_line2":
		return p.BusinessAddressLine2, true
	case "business_city":
		return p.BusinessCity, true
	case "business_state_province":
		return p.BusinessStateProvince, true
	case "business_postal_code":
		return p.BusinessPostalCode, true
	case "business_country":
		return p.BusinessCountry, true
	case "number_of_employees":
		return p.NumberOfEmployees, true
	case "annual_revenue_range":
		return p.AnnualRevenueRange, true
	case "stock_symbol":
		return p.StockSymbol, true
	}
	return "", false
}

func (p *BusinessProfile) Clone() Profile {
	cp := *p
	if p.BeneficialOwners != nil {
		cp.BeneficialOwners = make([]BeneficialOwner, len(p.BeneficialOwners))
		copy(cp.BeneficialOwners, p.BeneficialOwners)
	}
	return &cp
}

// NewProfile returns an empty profile of the variant matching caseType.
func NewProfile(caseType CaseType) (Profile, error) {
	switch caseType {
	case CaseTypeIndividual:
		return &IndividualProfile{}, nil
	case CaseTypeBusiness:
		return &BusinessProfile{}, nil
	}
	return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid case type: "+string(caseType))
}

// DecodeProfile decodes raw JSON into the variant selected by caseType.
// Empty input and JSON null yield an empty profile of that variant.
func DecodeProfile(caseType CaseType, raw []byte) (Profile, error) {
	p, err := NewProfile(caseType)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid profile payload")
	}
	return p, nil
}
