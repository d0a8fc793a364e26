package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelpi/marketplace/internal/api/rest"
	"github.com/pixelpi/marketplace/internal/domain"
	"github.com/pixelpi/marketplace/internal/logger"
	"github.com/pixelpi/marketplace/internal/store/schema"
)

// pngBytes is a minimal PNG signature, enough for content sniffing
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubService is a canned marketplace.Service for handler tests
type stubService struct {
	users []*schema.User
	nfts  []*schema.NFT
	nft   *schema.NFT
	err   error

	pingErr          error
	pinningReady     bool
	lastMintReq      domain.MintRequest
	lastMintImage    []byte
	lastMintFilename string
}

func (s *stubService) CreateUser(_ context.Context, req domain.CreateUserRequest) (*schema.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &schema.User{PiUserID: req.PiUserID, Username: req.Username}, nil
}

func (s *stubService) ListUsers(_ context.Context) ([]*schema.User, error) {
	return s.users, s.err
}

func (s *stubService) MintNFT(_ context.Context, req domain.MintRequest, image []byte, filename string) (*schema.NFT, error) {
	s.lastMintReq = req
	s.lastMintImage = image
	s.lastMintFilename = filename
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.nft, nil
}

func (s *stubService) ListNFTs(_ context.Context, _ bool) ([]*schema.NFT, error) {
	return s.nfts, s.err
}

func (s *stubService) GetNFT(_ context.Context, _ string) (*schema.NFT, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.nft, nil
}

func (s *stubService) ApprovePayment(_ context.Context, req domain.ApprovePaymentRequest) (*schema.NFT, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.nft, nil
}

func (s *stubService) CompletePayment(_ context.Context, req domain.CompletePaymentRequest) (*schema.NFT, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.nft, nil
}

func (s *stubService) CreateTestUser(_ context.Context) (*schema.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &schema.User{PiUserID: "pi_test_abc"}, nil
}

func (s *stubService) CreateTestNFT(_ context.Context) (*schema.NFT, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.nft, nil
}

func (s *stubService) Ping(_ context.Context) error {
	return s.pingErr
}

func (s *stubService) PinningConfigured() bool {
	return s.pinningReady
}

func newRouter(svc *stubService) *gin.Engine {
	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(svc))
	return router
}

func availableNFT() *schema.NFT {
	return &schema.NFT{
		TokenID:     "NFT_01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Title:       "Sunset",
		Description: "A sunset over the sea",
		Category:    "landscape",
		Price:       15.5,
		Creator:     "u1",
		Owner:       "u1",
		Status:      domain.StatusAvailable,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestLiveness(t *testing.T) {
	router := newRouter(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PixelPi Backend is Working!", w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newRouter(&stubService{pinningReady: true})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp["status"])
		assert.Equal(t, "connected", resp["database"])
		assert.Equal(t, "configured", resp["pinning"])
	})

	t.Run("degraded", func(t *testing.T) {
		router := newRouter(&stubService{pingErr: errors.New("connection refused")})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp["status"])
		assert.Equal(t, "unreachable", resp["database"])
		assert.Equal(t, "not configured", resp["pinning"])
	})
}

func mintForm(t *testing.T, fields map[string]string, image []byte, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func validMintFields() map[string]string {
	return map[string]string{
		"title":       "Sunset",
		"description": "A sunset over the sea",
		"price":       "15.5",
		"category":    "landscape",
		"creator":     "u1",
	}
}

func TestMintNFT(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &stubService{nft: availableNFT()}
		router := newRouter(svc)

		body, contentType := mintForm(t, validMintFields(), pngBytes, "sunset.png")
		req := httptest.NewRequest(http.MethodPost, "/api/nfts/mint", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp["token_id"].(string), "NFT_"))
		// The mint response carries no sale state
		assert.NotContains(t, resp, "status")
		assert.NotContains(t, resp, "views")

		assert.Equal(t, "Sunset", svc.lastMintReq.Title)
		assert.Equal(t, 15.5, svc.lastMintReq.Price)
		assert.Equal(t, "sunset.png", svc.lastMintFilename)
		assert.Equal(t, pngBytes, svc.lastMintImage)
	})

	t.Run("missing image", func(t *testing.T) {
		router := newRouter(&stubService{nft: availableNFT()})

		body, contentType := mintForm(t, validMintFields(), nil, "")
		req := httptest.NewRequest(http.MethodPost, "/api/nfts/mint", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "image")
	})

	t.Run("non-image upload rejected", func(t *testing.T) {
		router := newRouter(&stubService{nft: availableNFT()})

		body, contentType := mintForm(t, validMintFields(), []byte("#!/bin/sh\necho hi\n"), "script.png")
		req := httptest.NewRequest(http.MethodPost, "/api/nfts/mint", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unsupported type")
	})

	t.Run("missing required field", func(t *testing.T) {
		router := newRouter(&stubService{nft: availableNFT()})

		fields := validMintFields()
		delete(fields, "title")
		body, contentType := mintForm(t, fields, pngBytes, "a.png")
		req := httptest.NewRequest(http.MethodPost, "/api/nfts/mint", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "title")
	})

	t.Run("invalid price", func(t *testing.T) {
		router := newRouter(&stubService{nft: availableNFT()})

		fields := validMintFields()
		fields["price"] = "lots"
		body, contentType := mintForm(t, fields, pngBytes, "a.png")
		req := httptest.NewRequest(http.MethodPost, "/api/nfts/mint", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "price")
	})

	t.Run("pin failure maps to 500", func(t *testing.T) {
		router := newRouter(&stubService{err: errors.New("failed to pin image: pinata unreachable")})

		body, contentType := mintForm(t, validMintFields(), pngBytes, "a.png")
		req := httptest.NewRequest(http.MethodPost, "/api/nfts/mint", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestListNFTs(t *testing.T) {
	svc := &stubService{nfts: []*schema.NFT{availableNFT()}}
	router := newRouter(svc)

	for _, path := range []string{"/api/nfts", "/api/nfts/available"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp rest.NFTListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Total)
		require.Len(t, resp.NFTs, 1)
		assert.Equal(t, "available", resp.NFTs[0].Status)
	}
}

func TestGetNFT(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		nft := availableNFT()
		nft.Views = 7
		router := newRouter(&stubService{nft: nft})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfts/"+nft.TokenID, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp rest.NFTResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, nft.TokenID, resp.TokenID)
		assert.Equal(t, int64(7), resp.Views)
	})

	t.Run("not found", func(t *testing.T) {
		router := newRouter(&stubService{err: domain.ErrNFTNotFound})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nfts/NFT_unknown", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "not_found")
	})
}

func TestUsers(t *testing.T) {
	svc := &stubService{users: []*schema.User{{PiUserID: "pi_1", Username: "alice"}}}
	router := newRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp rest.UserListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "pi_1", resp.Users[0].PiUserID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/create-test-user", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "pi_test_abc")
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestApprovePayment(t *testing.T) {
	approveBody := map[string]string{"paymentId": "pay_1", "tokenId": "NFT_x", "buyerId": "buyer"}

	t.Run("approved", func(t *testing.T) {
		router := newRouter(&stubService{nft: availableNFT()})
		w := postJSON(t, router, "/api/payments/approve", approveBody)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "available")
	})

	t.Run("not available", func(t *testing.T) {
		router := newRouter(&stubService{err: domain.ErrNFTNotAvailable})
		w := postJSON(t, router, "/api/payments/approve", approveBody)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		router := newRouter(&stubService{err: domain.ErrNFTNotFound})
		w := postJSON(t, router, "/api/payments/approve", approveBody)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		router := newRouter(&stubService{nft: availableNFT()})
		w := postJSON(t, router, "/api/payments/approve", map[string]string{"paymentId": "pay_1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCompletePayment(t *testing.T) {
	completeBody := map[string]string{"paymentId": "pay_1", "txid": "tx_1", "tokenId": "NFT_x", "buyerId": "buyer"}

	t.Run("completed", func(t *testing.T) {
		sold := availableNFT()
		sold.Status = domain.StatusSold
		sold.Owner = "buyer"
		router := newRouter(&stubService{nft: sold})

		w := postJSON(t, router, "/api/payments/complete", completeBody)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp rest.NFTResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "sold", resp.Status)
		assert.Equal(t, "buyer", resp.Owner)
	})

	t.Run("already sold", func(t *testing.T) {
		router := newRouter(&stubService{err: domain.ErrNFTNotAvailable})
		w := postJSON(t, router, "/api/payments/complete", completeBody)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		router := newRouter(&stubService{err: domain.ErrNFTNotFound})
		w := postJSON(t, router, "/api/payments/complete", completeBody)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
