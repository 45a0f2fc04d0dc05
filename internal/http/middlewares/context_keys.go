package middlewares

// keys used on the gin context by the middleware chain
const (
	CtxRequestID = "requestID"
)
