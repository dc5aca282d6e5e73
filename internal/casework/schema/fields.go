package schema

import (
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/validation"
)

func email(v string, _ Context) error { return validation.Email(v) }
func phone(v string, _ Context) error { return validation.Phone(v) }
func website(v string, _ Context) error { return validation.URL(v) }
func percentage(v string, _ Context) error { return validation.Percentage(v) }

func dateOfBirth(v string, rc Context) error { return validation.DateOfBirth(v, rc.Now) }

func pastDate(label string) Rule {
	return func(v string, rc Context) error { return validation.PastDate(v, label, rc.Now) }
}

func taxID(label string) Rule {
	return func(v string, _ Context) error { return validation.TaxID(v, label) }
}

// postalFor validates against the country held in countryPath.
func postalFor(countryPath string) Rule {
	return func(v string, rc Context) error { return validation.PostalCode(v, rc.Lookup(countryPath)) }
}

func required(path, label string, rules ...Rule) Field {
	return Field{Path: path, Label: label, Required: true, Rules: rules}
}

func optional(path, label string, rules ...Rule) Field {
	return Field{Path: path, Label: label, Rules: rules}
}

func IndividualSchema() *Schema {
	return &Schema{
		CaseType: models.CaseTypeIndividual,
		Fields: []Field{
			required("first_name", "First name"),
			required("last_name", "Last name"),
			required("date_of_birth", "Date of birth", dateOfBirth),
			required("nationality", "Nationality"),
			required("email", "Email", email),
			required("phone_number", "Phone number", phone),
			required("address_line1", "Address line 1"),
			required("city", "City"),
			required("state_province", "State/Province"),
			required("postal_code", "Postal code", postalFor("country")),
			required("country", "Country"),
			required("occupation", "Occupation"),
		},
	}
}

func BusinessSchema() *Schema {
	return &Schema{
		CaseType: models.CaseTypeBusiness,
		Fields: []Field{
			required("business_name", "Business name"),
			required("legal_business_name", "Legal business name"),
			required("business_registration_number", "Registration number", taxID("Registration number")),
			required("tax_identification_number", "Tax ID", taxID("Tax ID")),
			required("incorporation_date", "Incorporation date", pastDate("Incorporation date")),
			required("business_type", "Business type"),
			required("industry_sector", "Industry sector"),
			required("business_email", "Business email", email),
			required("business_phone", "Business phone", phone),
			optional("business_website", "Website", website),
			required("business_address_line1", "Address line 1"),
			required("business_city", "City"),
			required("business_state_province", "State/Province"),
			required("business_postal_code", "Postal code", postalFor("business_country")),
			required("business_country", "Country"),
		},
		OwnerFields: []Field{
			required("first_name", "First name"),
			required("last_name", "Last name"),
			required("date_of_birth", "Date of birth", dateOfBirth),
			required("nationality", "Nationality"),
			required("ownership_percentage", "Ownership percentage", percentage),
			optional("email", "Email", email),
		},
	}
}
