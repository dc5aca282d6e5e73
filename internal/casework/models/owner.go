package models

import (
	"github.com/google/uuid"

	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
)

// OwnerLocalID identifies a beneficial-owner row inside one case. It is
// assigned on the client and carries no meaning beyond that case.
type OwnerLocalID string

func NewOwnerLocalID() OwnerLocalID {
	return OwnerLocalID("bo_" + uuid.NewString())
}

// BeneficialOwner is one row of a business profile. ID stays nil until the
// Verification Service has persisted the row.
type BeneficialOwner struct {
	ID                  id.OwnerID   `json:"id"`
	LocalID             OwnerLocalID `json:"local_id"`
	FirstName           string       `json:"first_name"`
	LastName            string       `json:"last_name"`
	DateOfBirth         string       `json:"date_of_birth"`
	Nationality         string       `json:"nationality"`
	OwnershipPercentage string       `json:"ownership_percentage"`
	PositionTitle       string       `json:"position_title"`
	Email               string       `json:"email"`
}

func (o BeneficialOwner) Value(path string) (string, bool) {
	switch path {
	case "first_name":
		return o.FirstName, true
	case "last_name":
		return o.LastName, true
	case "date_of_birth":
		return o.DateOfBirth, true
	case "nationality":
		return o.Nationality, true
	case "ownership_percentage":
		return o.OwnershipPercentage, true
	case "position_title":
		return o.PositionTitle, true
	case "email":
		return o.Email, true
	}
	return "", false
}

var errOwnerNotFound = dErrors.New(dErrors.CodeNotFound, "beneficial owner not found")

// AddOwner appends a row and returns its local id. A blank or already used
// LocalID on the input is replaced with a fresh one. No validation runs.
func (p *BusinessProfile) AddOwner(owner BeneficialOwner) OwnerLocalID {
	if owner.LocalID == "" || p.indexOf(owner.LocalID) >= 0 {
		owner.LocalID = NewOwnerLocalID()
	}
	p.BeneficialOwners = append(p.BeneficialOwners, owner)
	return owner.LocalID
}

// UpdateOwner applies fn to the row identified by localID. Identity fields
// are restored after fn returns so a row cannot be re-keyed.
func (p *BusinessProfile) UpdateOwner(localID OwnerLocalID, fn func(*BeneficialOwner)) error {
	i := p.indexOf(localID)
	if i < 0 {
		return errOwnerNotFound
	}
	row := &p.BeneficialOwners[i]
	keepID, keepLocal := row.ID, row.LocalID
	fn(row)
	row.ID, row.LocalID = keepID, keepLocal
	return nil
}

// RemoveOwner deletes the row and keeps the order of the rest.
func (p *BusinessProfile) RemoveOwner(localID OwnerLocalID) error {
	i := p.indexOf(localID)
	if i < 0 {
		return errOwnerNotFound
	}
	p.BeneficialOwners = append(p.BeneficialOwners[:i:i], p.BeneficialOwners[i+1:]...)
	return nil
}

func (p *BusinessProfile) Owner(localID OwnerLocalID) (BeneficialOwner, bool) {
	i := p.indexOf(localID)
	if i < 0 {
		return BeneficialOwner{}, false
	}
	return p.BeneficialOwners[i], true
}

func (p *BusinessProfile) indexOf(localID OwnerLocalID) int {
	for i := range p.BeneficialOwners {
		if p.BeneficialOwners[i].LocalID == localID {
			return i
		}
	}
	return -1
}

// EnsureOwnerLocalIDs gives every row a unique local id. Rows decoded from a
// service payload may arrive without one.
func (p *BusinessProfile) EnsureOwnerLocalIDs() {
	seen := make(map[OwnerLocalID]bool, len(p.BeneficialOwners))
	for i := range p.BeneficialOwners {
		row := &p.BeneficialOwners[i]
		if row.LocalID == "" || seen[row.LocalID] {
			row.LocalID = NewOwnerLocalID()
		}
		seen[row.LocalID] = true
	}
}
