package auctionerrors

import "errors"

// Access errors
var (
	ErrUnauthorized     = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrWrongCredentials = errors.New("wrong credentials")
)

// Lookup errors
var (
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrBidNotFound         = errors.New("bid not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
)

// Validation errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateName  = errors.New("name already taken")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Business rule errors
var (
	ErrAuctionInactive = errors.New("auction is not active")
	ErrSelfBid         = errors.New("cannot bid on your own auction")
	ErrBidTooLow       = errors.New("bid must be higher than the current highest bid")
	ErrAuctionNotEnded = errors.New("auction is not finished yet")
	ErrNoBids          = errors.New("no bids for this auction")
	ErrNotWinner       = errors.New("not the winner of this auction")
	ErrAlreadySettled  = errors.New("transaction already exists for this auction")
)
