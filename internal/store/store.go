package store

import (
	"context"
	"time"

	"github.com/pixelpi/marketplace/internal/store/schema"
)

// Store defines the interface for database operations
type Store interface {
	// CreateUser inserts a new user; returns domain.ErrUserExists when the pi_user_id is taken
	CreateUser(ctx context.Context, user *schema.User) error
	// GetUserByPiUserID retrieves a user by their external Pi Network ID
	GetUserByPiUserID(ctx context.Context, piUserID string) (*schema.User, error)
	// ListUsers retrieves all users
	ListUsers(ctx context.Context) ([]*schema.User, error)

	// CreateNFT inserts a new NFT; returns domain.ErrNFTExists when the token ID is taken
	CreateNFT(ctx context.Context, nft *schema.NFT) error
	// GetNFTByTokenID retrieves an NFT by its token ID
	GetNFTByTokenID(ctx context.Context, tokenID string) (*schema.NFT, error)
	// ListNFTs retrieves NFTs ordered by creation time descending,
	// optionally filtered to available ones
	ListNFTs(ctx context.Context, onlyAvailable bool) ([]*schema.NFT, error)
	// IncrementNFTViews bumps the view counter by one in a single statement
	IncrementNFTViews(ctx context.Context, tokenID string) error
	// CompleteNFTSale transitions an available NFT to sold in a single conditional
	// update and returns the updated record. Only one of any set of concurrent
	// completions for the same token can succeed.
	CompleteNFTSale(ctx context.Context, tokenID, buyerID, paymentID, transactionID string, at time.Time) (*schema.NFT, error)

	// Ping verifies database connectivity
	Ping(ctx context.Context) error
}
