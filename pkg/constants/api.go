package constants

// HTTP and API constants
const (
	ContentTypeJSON = "application/json"

	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	BearerPrefix = "Bearer "

	// Response keys
	ResponseError   = "error"
	ResponseSuccess = "success"
	ResponseItems   = "items"
	FieldMessage    = "message"

	// Context keys
	ContextKeyUser  = "user"
	ContextKeyToken = "token"
)

// Query parameter constants
const (
	ParamLimit  = "limit"
	ParamOffset = "offset"
	ParamSearch = "search"
	ParamStatus = "status"

	DefaultLimit    = 25
	DefaultMaxLimit = 1000
)
