package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/pixelpi/marketplace/internal/domain"
	"github.com/pixelpi/marketplace/internal/marketplace"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// Liveness returns a plain-text liveness message
	// GET /
	Liveness(c *gin.Context)

	// HealthCheck returns the health status of the API including store connectivity
	// GET /health
	HealthCheck(c *gin.Context)

	// CreateTestUser seeds a user with a generated identity
	// GET /api/create-test-user
	CreateTestUser(c *gin.Context)

	// ListUsers retrieves all users
	// GET /api/users
	ListUsers(c *gin.Context)

	// MintNFT mints a new NFT from a multipart form (image + title/description/price/category/creator)
	// POST /api/nfts/mint
	MintNFT(c *gin.Context)

	// CreateTestNFT seeds an NFT record
	// GET /api/create-test-nft
	CreateTestNFT(c *gin.Context)

	// ListNFTs retrieves all NFTs, newest first
	// GET /api/nfts
	ListNFTs(c *gin.Context)

	// ListAvailableNFTs retrieves available NFTs, newest first
	// GET /api/nfts/available
	ListAvailableNFTs(c *gin.Context)

	// GetNFT retrieves a single NFT by token ID, incrementing its view counter
	// GET /api/nfts/:tokenId
	GetNFT(c *gin.Context)

	// ApprovePayment validates that a payment may proceed; never mutates the NFT
	// POST /api/payments/approve
	ApprovePayment(c *gin.Context)

	// CompletePayment finalizes a purchase, transferring ownership to the buyer
	// POST /api/payments/complete
	CompletePayment(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	service marketplace.Service
}

// NewHandler creates a new REST API handler over the marketplace service
func NewHandler(service marketplace.Service) Handler {
	return &handler{service: service}
}

// Liveness returns a plain-text liveness message
func (h *handler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "PixelPi Backend is Working!")
}

// HealthCheck reports store connectivity and pinning configuration
func (h *handler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "connected",
		Pinning:   "configured",
		Timestamp: time.Now().UTC(),
	}

	status := http.StatusOK
	if err := h.service.Ping(c.Request.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if !h.service.PinningConfigured() {
		resp.Pinning = "not configured"
	}

	c.JSON(status, resp)
}

// CreateTestUser seeds a user with a generated identity
func (h *handler) CreateTestUser(c *gin.Context) {
	user, err := h.service.CreateTestUser(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to create test user")
		return
	}

	c.JSON(http.StatusCreated, MapUserToDTO(user))
}

// ListUsers retrieves all users
func (h *handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to list users")
		return
	}

	response := UserListResponse{
		Users: make([]UserResponse, len(users)),
		Total: len(users),
	}
	for i, user := range users {
		response.Users[i] = MapUserToDTO(user)
	}

	c.JSON(http.StatusOK, response)
}

// MintNFT mints a new NFT from a multipart form
func (h *handler) MintNFT(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		respondValidationError(c, "price must be a number")
		return
	}

	req := domain.MintRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Creator:     c.PostForm("creator"),
		Price:       price,
	}

	image, filename, err := readImageFile(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	nft, err := h.service.MintNFT(c.Request.Context(), req, image, filename)
	if err != nil {
		if domain.IsValidationError(err) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to mint NFT")
		return
	}

	c.JSON(http.StatusCreated, MapNFTToMintDTO(nft))
}

// readImageFile extracts and validates the mint image from the multipart form
func readImageFile(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, "", fmt.Errorf("image: is required")
	}
	if fileHeader.Size > domain.MAX_IMAGE_SIZE {
		return nil, "", fmt.Errorf("image: exceeds the %d MB limit", domain.MAX_IMAGE_SIZE>>20)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("image: could not be read")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, domain.MAX_IMAGE_SIZE+1))
	if err != nil {
		return nil, "", fmt.Errorf("image: could not be read")
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image: is empty")
	}
	if len(data) > domain.MAX_IMAGE_SIZE {
		return nil, "", fmt.Errorf("image: exceeds the %d MB limit", domain.MAX_IMAGE_SIZE>>20)
	}

	// Sniff the actual content type; the multipart header is client-controlled
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, "", fmt.Errorf("image: unsupported type %s, only images are accepted", mtype.String())
	}

	return data, fileHeader.Filename, nil
}

// CreateTestNFT seeds an NFT record
func (h *handler) CreateTestNFT(c *gin.Context) {
	nft, err := h.service.CreateTestNFT(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to create test NFT")
		return
	}

	c.JSON(http.StatusCreated, MapNFTToDTO(nft))
}

// ListNFTs retrieves all NFTs, newest first
func (h *handler) ListNFTs(c *gin.Context) {
	h.listNFTs(c, false)
}

// ListAvailableNFTs retrieves available NFTs, newest first
func (h *handler) ListAvailableNFTs(c *gin.Context) {
	h.listNFTs(c, true)
}

func (h *handler) listNFTs(c *gin.Context, onlyAvailable bool) {
	nfts, err := h.service.ListNFTs(c.Request.Context(), onlyAvailable)
	if err != nil {
		respondInternalError(c, err, "Failed to list NFTs")
		return
	}

	response := NFTListResponse{
		NFTs:  make([]NFTResponse, len(nfts)),
		Total: len(nfts),
	}
	for i, nft := range nfts {
		response.NFTs[i] = MapNFTToDTO(nft)
	}

	c.JSON(http.StatusOK, response)
}

// GetNFT retrieves a single NFT by token ID, incrementing its view counter
func (h *handler) GetNFT(c *gin.Context) {
	tokenID := c.Param("tokenId")
	if tokenID == "" {
		respondBadRequest(c, "Token ID is required")
		return
	}

	nft, err := h.service.GetNFT(c.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrNFTNotFound) {
			respondNotFound(c, "NFT not found")
			return
		}
		respondInternalError(c, err, "Failed to get NFT")
		return
	}

	c.JSON(http.StatusOK, MapNFTToDTO(nft))
}

// ApprovePayment validates that a payment may proceed
func (h *handler) ApprovePayment(c *gin.Context) {
	var req ApprovePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	nft, err := h.service.ApprovePayment(c.Request.Context(), domain.ApprovePaymentRequest{
		PaymentID: req.PaymentID,
		TokenID:   req.TokenID,
		BuyerID:   req.BuyerID,
	})
	if err != nil {
		h.respondPaymentError(c, err, "Failed to approve payment")
		return
	}

	c.JSON(http.StatusOK, MapNFTToDTO(nft))
}

// CompletePayment finalizes a purchase
func (h *handler) CompletePayment(c *gin.Context) {
	var req CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	nft, err := h.service.CompletePayment(c.Request.Context(), domain.CompletePaymentRequest{
		PaymentID: req.PaymentID,
		TxID:      req.TxID,
		TokenID:   req.TokenID,
		BuyerID:   req.BuyerID,
	})
	if err != nil {
		h.respondPaymentError(c, err, "Failed to complete payment")
		return
	}

	c.JSON(http.StatusOK, MapNFTToDTO(nft))
}

// respondPaymentError maps payment service errors onto HTTP responses
func (h *handler) respondPaymentError(c *gin.Context, err error, message string) {
	switch {
	case domain.IsValidationError(err):
		respondValidationError(c, err.Error())
	case errors.Is(err, domain.ErrNFTNotFound):
		respondNotFound(c, "NFT not found")
	case errors.Is(err, domain.ErrNFTNotAvailable):
		respondConflict(c, "NFT is not available for sale")
	default:
		respondInternalError(c, err, message)
	}
}
