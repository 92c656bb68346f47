package wallet

import "errors"

var (
	ErrWalletExists    = errors.New("wallet already exists")
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrMalformed       = errors.New("malformed keystore")
	ErrInvalidPassword = errors.New("invalid password")
	ErrNoPassword      = errors.New("no password available")
)
