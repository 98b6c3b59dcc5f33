package app

import (
	"errors"

	"lostfound/domain"
	"lostfound/pkg/httperror"
)

func validationFailed(code string, err error) *httperror.Error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return httperror.BadRequest(code, ve.Error(), ve.Violations)
	}
	return httperror.BadRequest(code, "Validation failed for the request", nil)
}

func invalidItemID(code string) *httperror.Error {
	return httperror.BadRequest(code, "Invalid item ID", nil)
}
