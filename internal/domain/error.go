package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrPaymentNotFound    = errors.New("payment record not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrNotPropertyOwner   = errors.New("user does not own this property")
	ErrPlanNotFound       = errors.New("premium plan not found")
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrInvalidToken       = errors.New("invalid callback token")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid database execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
