package service

import "errors"

var (
	// ErrNoActiveCards means the active card pool is empty
	ErrNoActiveCards = errors.New("no active cards available for transaction generation")
	// ErrInvalidCount means a bulk request is outside [1, max bulk size]
	ErrInvalidCount = errors.New("invalid transaction count")
	// ErrUniqueConstraintExhausted means no unused email variant was found for a customer
	ErrUniqueConstraintExhausted = errors.New("unable to generate unique email")
	// ErrPublishFailure wraps any failure of a generate-and-publish call
	ErrPublishFailure = errors.New("failed to generate and publish transaction")
)
