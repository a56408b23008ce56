package domain

import "errors"

var (
	// Bid validation — rejected synchronously, never retried.
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrAuctionNotActive    = errors.New("auction is not active")
	ErrBidTooLow           = errors.New("bid below current floor")
	ErrDuplicateHighBidder = errors.New("bidder already holds the highest bid")
	ErrCeilingTooLow       = errors.New("auto-bid ceiling below current floor")

	// Concurrency — retried internally before surfacing.
	ErrBidConflict          = errors.New("concurrent bid committed first")
	ErrBidConflictExhausted = errors.New("bid conflict retries exhausted")

	// Lifecycle.
	ErrAuctionAlreadyClosed   = errors.New("auction already closed")
	ErrAuctionPaymentInFlight = errors.New("payment in flight, cancellation rejected")
	ErrNotAuctionHost         = errors.New("caller is not the auction host")

	// Payment window.
	ErrNotAuctionWinner      = errors.New("caller is not the auction winner")
	ErrNoPaymentDue          = errors.New("no payment due for auction")
	ErrPaymentDeadlinePassed = errors.New("payment deadline passed")
	ErrWinnerChanged         = errors.New("auction winner changed before completion")

	// Webhook security — rejected before any state mutation.
	ErrSignatureMissing = errors.New("webhook signature missing")
	ErrSignatureInvalid = errors.New("webhook signature invalid")
	ErrTimestampExpired = errors.New("webhook signing timestamp expired")
	ErrPayloadMalformed = errors.New("webhook payload malformed")
	ErrUnknownGateway   = errors.New("unknown payment gateway")
)
