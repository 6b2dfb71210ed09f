package payment

import "errors"

var (
	ErrPaymentNotFound       = errors.New("payment request not found")
	ErrUnsupportedWalletKind = errors.New("unsupported wallet kind")
	ErrUnsupportedToken      = errors.New("unsupported token")
	ErrInvalidPaymentRequest = errors.New("invalid payment request")
)
