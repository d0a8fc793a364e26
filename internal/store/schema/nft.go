package schema

import (
	"time"

	"github.com/pixelpi/marketplace/internal/domain"
)

// NFT represents the nfts table - the primary entity for minted marketplace records
type NFT struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID is the marketplace token identifier in format NFT_<ULID>
	TokenID string `gorm:"column:token_id;not null;uniqueIndex;type:text"`
	// Title is the display title of the NFT
	Title string `gorm:"column:title;not null;type:text"`
	// Description is the free-form description
	Description string `gorm:"column:description;not null;type:text"`
	// Category groups NFTs for browsing (e.g. "landscape", "portrait")
	Category string `gorm:"column:category;not null;type:text"`
	// Price is the listed sale price in Pi
	Price float64 `gorm:"column:price;not null"`
	// Creator is the Pi user ID of the minter; never changes after mint
	Creator string `gorm:"column:creator;not null;type:text"`
	// Owner is the Pi user ID of the current holder; equals Creator until sold
	Owner string `gorm:"column:owner;not null;type:text;index"`
	// ImageURL is the public gateway URL of the pinned image (empty when pinning was not configured)
	ImageURL string `gorm:"column:image_url;type:text"`
	// IPFSHash is the content hash returned by the pinning service
	IPFSHash string `gorm:"column:ipfs_hash;type:text"`
	// Status is the sale state (available, sold, pending)
	Status domain.Status `gorm:"column:status;not null;type:text;default:available;index"`
	// Views counts detail fetches; incremented atomically on each read
	Views int64 `gorm:"column:views;not null;default:0"`
	// SoldAt is set once, on purchase completion
	SoldAt *time.Time `gorm:"column:sold_at"`
	// SoldPrice records the listed price at the moment of completion
	SoldPrice *float64 `gorm:"column:sold_price"`
	// TransactionID is the blockchain transaction reference supplied on completion
	TransactionID *string `gorm:"column:transaction_id;type:text"`
	// PaymentID is the payment reference supplied on completion
	PaymentID *string `gorm:"column:payment_id;type:text"`
	// CreatedAt is the mint timestamp
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the NFT model
func (NFT) TableName() string {
	return "nfts"
}
