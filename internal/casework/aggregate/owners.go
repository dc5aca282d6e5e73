package aggregate

import (
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/workflow"
	dErrors "verifyflow/pkg/domain-errors"
)

// editableBusiness returns the business profile when the case may be edited.
func editableBusiness(c *models.Case) (*models.BusinessProfile, error) {
	if err := workflow.Check(c.Status, workflow.ActionEdit, workflow.ActorApplicant); err != nil {
		return nil, err
	}
	bp, ok := c.Business()
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "beneficial owners apply to business cases only")
	}
	return bp, nil
}

func AddOwner(c *models.Case, owner models.BeneficialOwner) (models.OwnerLocalID, error) {
	bp, err := editableBusiness(c)
	if err != nil {
		return "", err
	}
	return bp.AddOwner(owner), nil
}

func UpdateOwner(c *models.Case, localID models.OwnerLocalID, fn func(*models.BeneficialOwner)) error {
	bp, err := editableBusiness(c)
	if err != nil {
		return err
	}
	return bp.UpdateOwner(localID, fn)
}

func RemoveOwner(c *models.Case, localID models.OwnerLocalID) error {
	bp, err := editableBusiness(c)
	if err != nil {
		return err
	}
	return bp.RemoveOwner(localID)
}
