package dto

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeInvalidState          ErrorCode = "RES_004"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeDuplicateEmail   ErrorCode = "VAL_002"

	// Request errors
	ErrorCodeMethodNotAllowed ErrorCode = "REQ_001"
	ErrorCodeRateLimited      ErrorCode = "REQ_002"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string    `json:"detail" example:"Email already registered"`
	Code   ErrorCode `json:"code" example:"VAL_002"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code ErrorCode, detail string) *ErrorResponse {
	return &ErrorResponse{
		Detail: detail,
		Code:   code,
	}
}
