// Package validation holds the field-level rules applied to case profiles,
// owner rows and uploaded files.
//
// Every rule returns nil when the value is acceptable, otherwise an error
// coded dErrors.CodeValidation whose message is shown to the applicant as is.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	dErrors "verifyflow/pkg/domain-errors"
)

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

// MinimumAge is the age an individual or owner must have reached.
const MinimumAge = 18

// DefaultMaxFileBytes is the upload ceiling when none is configured.
const DefaultMaxFileBytes int64 = 16 << 20

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneCharset    = regexp.MustCompile(`^[\d\s\-+()]+$`)
	taxIDPattern    = regexp.MustCompile(`^[A-Za-z0-9-]{5,20}$`)
	postalFallback  = regexp.MustCompile(`^[A-Za-z0-9 -]{3,10}$`)
	postalByCountry = map[string]*regexp.Regexp{
		"US": regexp.MustCompile(`^\d{5}(-\d{4})?$`),
		"UK": regexp.MustCompile(`(?i)^[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}$`),
		"GB": regexp.MustCompile(`(?i)^[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}$`),
		"CA": regexp.MustCompile(`(?i)^[A-Z]\d[A-Z]\s?\d[A-Z]\d$`),
	}
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// AllowedMediaTypes is the upload whitelist.
var AllowedMediaTypes = map[string]bool{
	"application/pdf":    true,
	"image/png":          true,
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/gif":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

func invalid(msg string) error {
	return dErrors.New(dErrors.CodeValidation, msg)
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// Required fails on empty or whitespace-only values.
func Required(value, label string) error {
	if isBlank(value) {
		return invalid(label + " is required")
	}
	return nil
}

func Email(value string) error {
	if isBlank(value) {
		return invalid("Email is required")
	}
	if !emailPattern.MatchString(value) {
		return invalid("Invalid email address")
	}
	return nil
}

// Phone accepts digits, '+', '-', '(', ')' and spaces, and needs at least ten
// characters once spaces, hyphens and parentheses are removed.
func Phone(value string) error {
	if isBlank(value) {
		return invalid("Phone number is required")
	}
	if !phoneCharset.MatchString(value) {
		return invalid("Invalid phone number format")
	}
	if len(phoneSeparators.Replace(value)) < 10 {
		return invalid("Phone number is too short")
	}
	return nil
}

// DateOfBirth fails on future dates and on anyone younger than MinimumAge at now.
func DateOfBirth(value string, now time.Time) error {
	if isBlank(value) {
		return invalid("Date of birth is required")
	}
	dob, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return invalid("Date of birth must be a valid date (YYYY-MM-DD)")
	}
	today := truncateDay(now)
	if dob.After(today) {
		return invalid("Date of birth cannot be in the future")
	}
	if ageAt(dob, today) < MinimumAge {
		return invalid("Must be at least 18 years old")
	}
	return nil
}

// PastDate fails on absent, malformed or future dates.
func PastDate(value, label string, now time.Time) error {
	if isBlank(value) {
		return invalid(label + " is required")
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return invalid(label + " must be a valid date (YYYY-MM-DD)")
	}
	if d.After(truncateDay(now)) {
		return invalid(label + " cannot be in the future")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ageAt counts whole years, so a birthday later in the year is not yet reached.
func ageAt(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// Percentage accepts any finite number in [0, 100].
func Percentage(value string) error {
	num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return invalid("Must be a valid number")
	}
	if num < 0 || num > 100 {
		return invalid("Must be between 0 and 100")
	}
	return nil
}

// PostalCode checks the code against the pattern for country; countries
// outside the table, including an empty country, use a permissive fallback.
func PostalCode(value, country string) error {
	if isBlank(value) {
		return invalid("Postal code is required")
	}
	pattern, ok := postalByCountry[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		pattern = postalFallback
	}
	if !pattern.MatchString(value) {
		return invalid("Invalid postal code format")
	}
	return nil
}

// URL is optional; a present value must be an absolute URL.
func URL(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if !govalidator.IsRequestURL(value) {
		return invalid("Invalid URL format")
	}
	return nil
}

// TaxID applies to tax identification and business registration numbers.
func TaxID(value, label string) error {
	if isBlank(value) {
		return invalid(label + " is required")
	}
	if !taxIDPattern.MatchString(value) {
		return invalid("Invalid " + label + " format")
	}
	return nil
}

// File checks the declared media type and size of an upload. A ceiling of
// zero or less means DefaultMaxFileBytes.
func File(mediaType string, sizeBytes int64, present bool, maxBytes int64) error {
	if !present {
		return invalid("File is required")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	if !AllowedMediaTypes[strings.ToLower(strings.TrimSpace(mediaType))] {
		return invalid("File type not allowed. Please upload PDF, PNG, JPG, GIF, DOC, or DOCX files")
	}
	if sizeBytes > maxBytes {
		return invalid("File size must be less than " + sizeLabel(maxBytes))
	}
	return nil
}

// sizeLabel prints a byte ceiling in the largest unit that keeps it above one.
func sizeLabel(n int64) string {
	unit := func(v float64, suffix string) string {
		s := strconv.FormatFloat(v, 'f', 2, 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		return s + suffix
	}
	switch {
	case n >= 1<<20:
		return unit(float64(n)/(1<<20), "MB")
	case n >= 1<<10:
		return unit(float64(n)/(1<<10), "KB")
	}
	return strconv.FormatInt(n, 10) + " bytes"
}

// Password is the registration policy.
func Password(value string) error {
	if len(value) < 6 {
		return invalid("Password must be at least 6 characters")
	}
	var lower, upper, digit bool
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	switch {
	case !lower:
		return invalid("Password must contain at least one lowercase letter")
	case !upper:
		return invalid("Password must contain at least one uppercase letter")
	case !digit:
		return invalid("Password must contain at least one number")
	}
	return nil
}
