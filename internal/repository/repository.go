// Package repository handles all interactions with the database.
//
// It contains the SQL and the row scanning, keeping query logic out of the
// service layer. Methods return sentinel errors for the business conditions
// services need to distinguish; everything else surfaces as raw pgx errors
// for sqlerr to classify.
package repository

import "errors"

// Sentinel errors for conditions the service layer maps onto specific HTTP
// responses.
var (
	// ErrPostNotOwned means the caller is not the owner of the post. It is
	// reported as not-found so non-owners cannot probe for post existence.
	ErrPostNotOwned = errors.New("post not owned by caller")

	// ErrPostNotActive means the post is already fulfilled.
	ErrPostNotActive = errors.New("post is not active")

	// ErrNoInterest means the selected user never registered interest.
	ErrNoInterest = errors.New("selected user has no registered interest")

	// ErrDealExists means the post already has a deal.
	ErrDealExists = errors.New("deal already exists for this post")

	// ErrOTPNotVerified means completion was attempted before the handoff
	// code was verified.
	ErrOTPNotVerified = errors.New("handoff code not verified")

	// ErrInvalidTransition means the deal is not in a state that allows the
	// requested operation.
	ErrInvalidTransition = errors.New("invalid deal state transition")
)
