// Package domain holds typed identifiers shared across bounded contexts.
//
// Construct IDs from external input with the Parse* functions; direct
// conversion from uuid.UUID is reserved for code that generates fresh IDs.
package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "verifyflow/pkg/domain-errors"
)

type (
	UserID     uuid.UUID
	CaseID     uuid.UUID
	DocumentID uuid.UUID
	OwnerID    uuid.UUID
)

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id CaseID) String() string     { return uuid.UUID(id).String() }
func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id OwnerID) String() string    { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CaseID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id OwnerID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id CaseID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id DocumentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id OwnerID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error     { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *CaseID) UnmarshalText(b []byte) error     { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *DocumentID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *OwnerID) UnmarshalText(b []byte) error    { return unmarshalUUID((*uuid.UUID)(id), b) }

// unmarshalUUID decodes an empty string as the nil ID.
func unmarshalUUID(u *uuid.UUID, b []byte) error {
	if len(b) == 0 {
		*u = uuid.Nil
		return nil
	}
	return u.UnmarshalText(b)
}

// NewCaseID, NewDocumentID and NewOwnerID generate fresh random identifiers.
func NewCaseID() CaseID         { return CaseID(uuid.New()) }
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }
func NewOwnerID() OwnerID       { return OwnerID(uuid.New()) }
func NewUserID() UserID         { return UserID(uuid.New()) }

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

func ParseCaseID(s string) (CaseID, error) {
	u, err := parseUUID(s, "case_id")
	return CaseID(u), err
}

func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document_id")
	return DocumentID(u), err
}

func ParseOwnerID(s string) (OwnerID, error) {
	u, err := parseUUID(s, "owner_id")
	return OwnerID(u), err
}

// parseUUID enforces: non-empty, valid UTF-8, canonical UUID, not the nil UUID.
func parseUUID(s, field string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if !utf8.ValidString(s) || len(s) != 36 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	return u, nil
}
