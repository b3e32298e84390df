package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeImage = "image/"
)

// context keys
const (
	UserContextKey  = "user"
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// pagination bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
