package lifecycle

import "agency-backend/internal/apperr"

var (
	ErrUnauthorized       = apperr.Unauthorized("UNAUTHORIZED", "authentication required")
	ErrForbidden          = apperr.Unauthorized("FORBIDDEN", "insufficient permission")
	ErrEstimateNotFound   = apperr.NotFound("ESTIMATE_NOT_FOUND", "estimate not found")
	ErrProjectNotFound    = apperr.NotFound("PROJECT_NOT_FOUND", "project not found")
	ErrOrderNotFound      = apperr.NotFound("ORDER_NOT_FOUND", "order not found")
	ErrInvalidStatus      = apperr.Validation("INVALID_STATUS", "status is not one of the allowed values")
	ErrInvalidEstimate    = apperr.Validation("INVALID_ESTIMATE", "estimate needs a title and non-negative hours")
	ErrAlreadyPaid        = apperr.Validation("ESTIMATE_ALREADY_PAID", "estimate has already been paid")
	ErrConfirmationNeeded = apperr.Validation("CONFIRMATION_REQUIRED", "revert must be explicitly confirmed")
	ErrInvalidProof       = apperr.Validation("INVALID_PROOF", "proof url is required")
	ErrInvalidFile        = apperr.Validation("INVALID_FILE", "file name is required")
)
