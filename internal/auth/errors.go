package auth

// AuthError reports why a bearer token was not accepted. Message is safe to return to clients.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

var (
	ErrAuthenticationRequired = &AuthError{Message: "Authentication required"}
	ErrInvalidSigningKey      = &AuthError{Message: "Invalid signing key"}
)

func invalidToken(err error) *AuthError {
	return &AuthError{Message: "Invalid token: " + err.Error(), Err: err}
}
