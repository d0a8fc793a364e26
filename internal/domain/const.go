package domain

const (
	// Pinata constants
	DEFAULT_PINATA_API_URL = "https://api.pinata.cloud"
	DEFAULT_PINATA_GATEWAY = "https://gateway.pinata.cloud"

	// TOKEN_ID_PREFIX prefixes every generated marketplace token identifier
	TOKEN_ID_PREFIX = "NFT_"

	// MAX_IMAGE_SIZE is the upload limit for mint images (10 MB)
	MAX_IMAGE_SIZE = 10 << 20
)
