package orchestrator

import "errors"

var (
	// ErrNoConnection means the customer has no active platform connection.
	ErrNoConnection = errors.New("no active platform connection for customer")

	// ErrNotFound means the deployment does not exist or is already deleted.
	ErrNotFound = errors.New("deployment not found")
)
