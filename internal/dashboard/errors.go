package dashboard

import (
	"go-firewatch/internal/api"
	"go-firewatch/internal/session"
)

type (
	ValidationError = session.ValidationError
	AuthError       = session.AuthError
	ServerError     = session.ServerError
)

const unknownError = "Unknown error"

// failed builds the plain notice used by loaders and simple actions.
func failed(op, text string, err error) *ServerError {
	return &ServerError{Op: op, Message: text, Err: err}
}

// failedWithDetail appends the server's message, as the add and update forms do.
func failedWithDetail(op, text string, err error) *ServerError {
	msg := api.Message(err)
	if msg == "" {
		msg = unknownError
	}
	return &ServerError{Op: op, Message: text + ": " + msg, Err: err}
}
