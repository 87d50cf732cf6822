package domain

import "errors"

var (
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrUnsupportedCountry     = errors.New("unsupported country code")
	ErrInvalidStateTransition = errors.New("invalid payment state transition")
	ErrIDAlreadyAssigned      = errors.New("payment id already assigned")
	ErrRecordNotFound         = errors.New("record not found")
)
