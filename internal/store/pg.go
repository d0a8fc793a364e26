package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixelpi/marketplace/internal/domain"
	"github.com/pixelpi/marketplace/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance.
// The gorm connection must be opened with TranslateError enabled so that
// unique violations surface as gorm.ErrDuplicatedKey.
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the marketplace tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schema.User{}, &schema.NFT{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to defaults: 20 open, 5 idle, 5m lifetime, 10m idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// CreateUser inserts a new user record
func (s *pgStore) CreateUser(ctx context.Context, user *schema.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByPiUserID retrieves a user by their external Pi Network ID
func (s *pgStore) GetUserByPiUserID(ctx context.Context, piUserID string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("pi_user_id = ?", piUserID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ListUsers retrieves all users
func (s *pgStore) ListUsers(ctx context.Context) ([]*schema.User, error) {
	var users []*schema.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateNFT inserts a new NFT record
func (s *pgStore) CreateNFT(ctx context.Context, nft *schema.NFT) error {
	err := s.db.WithContext(ctx).Create(nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrNFTExists
		}
		return fmt.Errorf("failed to create nft: %w", err)
	}
	return nil
}

// GetNFTByTokenID retrieves an NFT by its token ID
func (s *pgStore) GetNFTByTokenID(ctx context.Context, tokenID string) (*schema.NFT, error) {
	var nft schema.NFT
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get nft: %w", err)
	}
	return &nft, nil
}

// ListNFTs retrieves NFTs newest first, optionally only available ones
func (s *pgStore) ListNFTs(ctx context.Context, onlyAvailable bool) ([]*schema.NFT, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if onlyAvailable {
		query = query.Where("status = ?", domain.StatusAvailable)
	}

	var nfts []*schema.NFT
	if err := query.Find(&nfts).Error; err != nil {
		return nil, fmt.Errorf("failed to list nfts: %w", err)
	}
	return nfts, nil
}

// IncrementNFTViews bumps the view counter in a single UPDATE to avoid
// read-modify-write races between concurrent detail fetches
func (s *pgStore) IncrementNFTViews(ctx context.Context, tokenID string) error {
	result := s.db.WithContext(ctx).
		Model(&schema.NFT{}).
		Where("token_id = ?", tokenID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment views: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNFTNotFound
	}
	return nil
}

// CompleteNFTSale performs the sold transition as one conditional update.
// The status guard in the WHERE clause makes concurrent completions race-safe:
// the loser matches zero rows. sold_price is copied from the row's own price
// column inside the same statement.
func (s *pgStore) CompleteNFTSale(ctx context.Context, tokenID, buyerID, paymentID, transactionID string, at time.Time) (*schema.NFT, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.NFT{}).
		Where("token_id = ? AND status = ?", tokenID, domain.StatusAvailable).
		Updates(map[string]interface{}{
			"owner":          buyerID,
			"status":         domain.StatusSold,
			"sold_at":        at,
			"sold_price":     gorm.Expr("price"),
			"transaction_id": transactionID,
			"payment_id":     paymentID,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to complete sale: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Distinguish an unknown token from one that is no longer for sale
		existing, err := s.GetNFTByTokenID(ctx, tokenID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNFTNotFound
		}
		return nil, domain.ErrNFTNotAvailable
	}

	return s.GetNFTByTokenID(ctx, tokenID)
}

// Ping verifies database connectivity
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
