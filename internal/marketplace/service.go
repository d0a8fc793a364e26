package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pixelpi/marketplace/internal/domain"
	"github.com/pixelpi/marketplace/internal/logger"
	"github.com/pixelpi/marketplace/internal/pinning"
	"github.com/pixelpi/marketplace/internal/store"
	"github.com/pixelpi/marketplace/internal/store/schema"
)

// Service is the interface for marketplace operations shared by all API handlers
type Service interface {
	// CreateUser registers a new user keyed by their Pi Network ID
	CreateUser(ctx context.Context, req domain.CreateUserRequest) (*schema.User, error)

	// ListUsers returns all registered users
	ListUsers(ctx context.Context) ([]*schema.User, error)

	// MintNFT validates the request, pins the image when the pinning service is
	// configured, and persists a new NFT owned by its creator
	MintNFT(ctx context.Context, req domain.MintRequest, image []byte, filename string) (*schema.NFT, error)

	// ListNFTs returns NFTs newest first, optionally only available ones
	ListNFTs(ctx context.Context, onlyAvailable bool) ([]*schema.NFT, error)

	// GetNFT returns a single NFT by token ID, counting the fetch as a view
	GetNFT(ctx context.Context, tokenID string) (*schema.NFT, error)

	// ApprovePayment checks that the NFT exists and is available for sale.
	// Approval is advisory: it never mutates the record.
	ApprovePayment(ctx context.Context, req domain.ApprovePaymentRequest) (*schema.NFT, error)

	// CompletePayment transitions an available NFT to sold, transferring
	// ownership to the buyer and recording the payment references
	CompletePayment(ctx context.Context, req domain.CompletePaymentRequest) (*schema.NFT, error)

	// CreateTestUser seeds a user with a generated identity
	CreateTestUser(ctx context.Context) (*schema.User, error)

	// CreateTestNFT seeds an NFT with fixed fields and a generated token ID
	CreateTestNFT(ctx context.Context) (*schema.NFT, error)

	// Ping verifies connectivity to the record store
	Ping(ctx context.Context) error

	// PinningConfigured reports whether the image pinning service has credentials
	PinningConfigured() bool
}

type service struct {
	store  store.Store
	pinner pinning.Pinner
}

// NewService creates a marketplace service over the given store and pinner
func NewService(dataStore store.Store, pinner pinning.Pinner) Service {
	return &service{store: dataStore, pinner: pinner}
}

func (s *service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*schema.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user := &schema.User{
		PiUserID:  req.PiUserID,
		Username:  req.Username,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "User created", zap.String("pi_user_id", user.PiUserID))
	return user, nil
}

func (s *service) ListUsers(ctx context.Context) ([]*schema.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *service) MintNFT(ctx context.Context, req domain.MintRequest, image []byte, filename string) (*schema.NFT, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, &domain.ValidationError{Field: "image", Message: "is required"}
	}

	nft := &schema.NFT{
		TokenID:     domain.NewTokenID(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Creator:     req.Creator,
		Owner:       req.Creator,
		Status:      domain.StatusAvailable,
		CreatedAt:   time.Now().UTC(),
	}

	if s.pinner.Configured() {
		hash, err := s.pinner.PinFile(ctx, image, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to pin image: %w", err)
		}
		nft.IPFSHash = hash
		nft.ImageURL = s.pinner.GatewayURL(hash)
	} else {
		logger.WarnCtx(ctx, "Pinning service not configured, minting without image upload",
			zap.String("token_id", nft.TokenID))
	}

	if err := s.store.CreateNFT(ctx, nft); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "NFT minted",
		zap.String("token_id", nft.TokenID),
		zap.String("creator", nft.Creator),
		zap.Float64("price", nft.Price),
	)
	return nft, nil
}

func (s *service) ListNFTs(ctx context.Context, onlyAvailable bool) ([]*schema.NFT, error) {
	return s.store.ListNFTs(ctx, onlyAvailable)
}

func (s *service) GetNFT(ctx context.Context, tokenID string) (*schema.NFT, error) {
	// The increment doubles as the existence check; it matches zero rows
	// for unknown tokens.
	if err := s.store.IncrementNFTViews(ctx, tokenID); err != nil {
		return nil, err
	}

	nft, err := s.store.GetNFTByTokenID(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if nft == nil {
		return nil, domain.ErrNFTNotFound
	}
	return nft, nil
}

func (s *service) ApprovePayment(ctx context.Context, req domain.ApprovePaymentRequest) (*schema.NFT, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nft, err := s.store.GetNFTByTokenID(ctx, req.TokenID)
	if err != nil {
		return nil, err
	}
	if nft == nil {
		return nil, domain.ErrNFTNotFound
	}
	if nft.Status != domain.StatusAvailable {
		return nil, domain.ErrNFTNotAvailable
	}

	logger.InfoCtx(ctx, "Payment approved",
		zap.String("payment_id", req.PaymentID),
		zap.String("token_id", req.TokenID),
		zap.String("buyer_id", req.BuyerID),
	)
	return nft, nil
}

func (s *service) CompletePayment(ctx context.Context, req domain.CompletePaymentRequest) (*schema.NFT, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nft, err := s.store.CompleteNFTSale(ctx, req.TokenID, req.BuyerID, req.PaymentID, req.TxID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Payment completed",
		zap.String("payment_id", req.PaymentID),
		zap.String("token_id", req.TokenID),
		zap.String("buyer_id", req.BuyerID),
		zap.String("txid", req.TxID),
	)
	return nft, nil
}

func (s *service) CreateTestUser(ctx context.Context) (*schema.User, error) {
	return s.CreateUser(ctx, domain.CreateUserRequest{
		PiUserID: "pi_test_" + uuid.NewString(),
		Username: "test_user",
	})
}

func (s *service) CreateTestNFT(ctx context.Context) (*schema.NFT, error) {
	nft := &schema.NFT{
		TokenID:     domain.NewTokenID(),
		Title:       "Test NFT",
		Description: "Seeded marketplace record",
		Category:    "test",
		Price:       1,
		Creator:     "pi_test_creator",
		Owner:       "pi_test_creator",
		Status:      domain.StatusAvailable,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateNFT(ctx, nft); err != nil {
		return nil, err
	}
	return nft, nil
}

func (s *service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *service) PinningConfigured() bool {
	return s.pinner.Configured()
}
