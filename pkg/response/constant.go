package response

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	ErrorCodeBadRequest         = 1
	ErrorCodeNotFound           = 404
	ErrorCodeTooManyRequests    = 429
	InternalServerErrorCode     = 500
	ErrorCodeServiceUnavailable = 503
)
