package handlers

import "jobza_backend/pkg/apperrors"

var (
	errMissingToken = apperrors.NewBadRequestError("Missing token")
	errMissingFile  = apperrors.NewBadRequestError("Missing file in form field 'file'")
)
