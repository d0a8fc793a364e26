package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Liveness and health endpoints (no prefix)
	router.GET("/", handler.Liveness)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		// User endpoints
		api.GET("/create-test-user", handler.CreateTestUser)
		api.GET("/users", handler.ListUsers)

		// NFT endpoints
		api.POST("/nfts/mint", handler.MintNFT)
		api.GET("/create-test-nft", handler.CreateTestNFT)
		api.GET("/nfts", handler.ListNFTs)
		api.GET("/nfts/available", handler.ListAvailableNFTs)
		api.GET("/nfts/:tokenId", handler.GetNFT)

		// Payment endpoints (mock Pi Network payment flow)
		api.POST("/payments/approve", handler.ApprovePayment)
		api.POST("/payments/complete", handler.CompletePayment)
	}
}
