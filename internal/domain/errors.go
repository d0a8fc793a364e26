package domain

import "errors"

var (
	// ErrUserExists is returned when creating a user whose pi_user_id is already registered
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrNFTExists is returned when inserting an NFT whose token ID is already taken
	ErrNFTExists = errors.New("nft already exists")

	// ErrNFTNotFound is returned when an NFT is not found
	ErrNFTNotFound = errors.New("nft not found")

	// ErrNFTNotAvailable is returned when a payment targets an NFT that is not for sale
	ErrNFTNotAvailable = errors.New("nft is not available for sale")

	// ErrPinningNotConfigured is returned when a pin is requested without Pinata credentials
	ErrPinningNotConfigured = errors.New("pinning service is not configured")
)
