package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/pixelpi/marketplace/internal/adapter"
	"github.com/pixelpi/marketplace/internal/domain"
)

// Pinner defines the interface for image pinning operations to enable mocking
type Pinner interface {
	// PinFile pins raw bytes under the given filename and returns the content hash
	PinFile(ctx context.Context, data []byte, filename string) (string, error)

	// GatewayURL returns the public URL for a pinned content hash
	GatewayURL(hash string) string

	// Configured reports whether pinning credentials are present
	Configured() bool
}

// PinResponse represents the response from the Pinata pin endpoint
type PinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// PinataClient implements Pinner against the Pinata HTTP API
type PinataClient struct {
	httpClient adapter.HTTPClient
	apiURL     string
	gateway    string
	jwt        string
}

// NewPinataClient creates a new Pinata client. An empty jwt produces a client
// that reports itself unconfigured and refuses to pin.
func NewPinataClient(httpClient adapter.HTTPClient, apiURL, gateway, jwt string) Pinner {
	return &PinataClient{
		httpClient: httpClient,
		apiURL:     apiURL,
		gateway:    gateway,
		jwt:        jwt,
	}
}

// Configured reports whether pinning credentials are present
func (c *PinataClient) Configured() bool {
	return c.jwt != ""
}

// PinFile packages the bytes as multipart form data, POSTs them to the
// pinFileToIPFS endpoint and returns the reported content hash
func (c *PinataClient) PinFile(ctx context.Context, data []byte, filename string) (string, error) {
	if !c.Configured() {
		return "", domain.ErrPinningNotConfigured
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.jwt,
	}

	respBody, err := c.httpClient.Post(ctx, c.apiURL+"/pinning/pinFileToIPFS", writer.FormDataContentType(), headers, &body)
	if err != nil {
		return "", fmt.Errorf("failed to pin file: %w", err)
	}

	var pinResp PinResponse
	if err := json.Unmarshal(respBody, &pinResp); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if pinResp.IpfsHash == "" {
		return "", fmt.Errorf("pin response missing content hash")
	}

	return pinResp.IpfsHash, nil
}

// GatewayURL returns the public URL for a pinned content hash
func (c *PinataClient) GatewayURL(hash string) string {
	return fmt.Sprintf("%s/ipfs/%s", c.gateway, hash)
}
