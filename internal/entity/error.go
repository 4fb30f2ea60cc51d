package entity

import (
	"errors"
)

var (
	ErrInvalidData      = errors.New("invalid data")
	ErrOrderNotFound    = errors.New("order not found in fulfillment system")
	ErrTransport        = errors.New("fulfillment transport error")
	ErrBackendRejected  = errors.New("fulfillment backend rejected request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
