package rest

import (
	"time"

	"github.com/pixelpi/marketplace/internal/store/schema"
)

// UserResponse represents a user record
type UserResponse struct {
	PiUserID      string    `json:"pi_user_id"`
	Username      string    `json:"username,omitempty"`
	TotalEarnings float64   `json:"total_earnings"`
	TotalSales    int64     `json:"total_sales"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// NFTResponse represents a full NFT record
type NFTResponse struct {
	TokenID       string     `json:"token_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Price         float64    `json:"price"`
	Creator       string     `json:"creator"`
	Owner         string     `json:"owner"`
	ImageURL      string     `json:"image_url,omitempty"`
	IPFSHash      string     `json:"ipfs_hash,omitempty"`
	Status        string     `json:"status"`
	Views         int64      `json:"views"`
	SoldAt        *time.Time `json:"sold_at,omitempty"`
	SoldPrice     *float64   `json:"sold_price,omitempty"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	PaymentID     *string    `json:"payment_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NFTListResponse represents a list of NFTs
type NFTListResponse struct {
	NFTs  []NFTResponse `json:"nfts"`
	Total int           `json:"total"`
}

// MintResponse represents a freshly minted NFT. Sale-state fields are omitted:
// a new mint is always available with zero views.
type MintResponse struct {
	TokenID     string    `json:"token_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Creator     string    `json:"creator"`
	Owner       string    `json:"owner"`
	ImageURL    string    `json:"image_url,omitempty"`
	IPFSHash    string    `json:"ipfs_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Pinning   string    `json:"pinning"`
	Timestamp time.Time `json:"timestamp"`
}

// ApprovePaymentRequest is the request body for POST /api/payments/approve
type ApprovePaymentRequest struct {
	PaymentID string `json:"paymentId"`
	TokenID   string `json:"tokenId"`
	BuyerID   string `json:"buyerId"`
}

// CompletePaymentRequest is the request body for POST /api/payments/complete
type CompletePaymentRequest struct {
	PaymentID string `json:"paymentId"`
	TxID      string `json:"txid"`
	TokenID   string `json:"tokenId"`
	BuyerID   string `json:"buyerId"`
}

// MapUserToDTO maps a user record to its response representation
func MapUserToDTO(user *schema.User) UserResponse {
	return UserResponse{
		PiUserID:      user.PiUserID,
		Username:      user.Username,
		TotalEarnings: user.TotalEarnings,
		TotalSales:    user.TotalSales,
		CreatedAt:     user.CreatedAt,
	}
}

// MapNFTToDTO maps an NFT record to its response representation
func MapNFTToDTO(nft *schema.NFT) NFTResponse {
	return NFTResponse{
		TokenID:       nft.TokenID,
		Title:         nft.Title,
		Description:   nft.Description,
		Category:      nft.Category,
		Price:         nft.Price,
		Creator:       nft.Creator,
		Owner:         nft.Owner,
		ImageURL:      nft.ImageURL,
		IPFSHash:      nft.IPFSHash,
		Status:        string(nft.Status),
		Views:         nft.Views,
		SoldAt:        nft.SoldAt,
		SoldPrice:     nft.SoldPrice,
		TransactionID: nft.TransactionID,
		PaymentID:     nft.PaymentID,
		CreatedAt:     nft.CreatedAt,
	}
}

// MapNFTToMintDTO maps a freshly minted NFT to the mint response
func MapNFTToMintDTO(nft *schema.NFT) MintResponse {
	return MintResponse{
		TokenID:     nft.TokenID,
		Title:       nft.Title,
		Description: nft.Description,
		Category:    nft.Category,
		Price:       nft.Price,
		Creator:     nft.Creator,
		Owner:       nft.Owner,
		ImageURL:    nft.ImageURL,
		IPFSHash:    nft.IPFSHash,
		CreatedAt:   nft.CreatedAt,
	}
}
