package session

// ValidationError is a local input problem found before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is a failed login. It is shown next to the login form.
// Rejected is set when the backend turned the credentials down (401/403)
// rather than failing to answer.
type AuthError struct {
	Message  string
	Rejected bool
	Err      error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ServerError is any other failed request: a non-2xx answer or a network failure.
// Message is what the user sees.
type ServerError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	return e.Message
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
