package auth

// Context keys under which the session guard stores the validated bearer
// token and its claims on the echo context.
const (
	ContextKeyToken  = "session_token"
	ContextKeyClaims = "session_claims"
)
