package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStorage            = errors.New("storage error")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserNotAuthorized = errors.New("user not authorized")
)

// Loan errors
var (
	ErrApplicationNotFound = errors.New("loan application not found")
	ErrInvalidLoanStatus   = errors.New("invalid loan status")
	ErrNoProductSelected   = errors.New("please select a credit product")
	ErrApplicantIncomplete = errors.New("please fill in all required fields")
)
