package redis

const (
	// KeyWishlist holds the whole wishlist as one JSON array
	KeyWishlist = "bibliofind:wishlist"
	// KeyPrefixCatalog is the prefix of cached catalog responses, flushed on catalog reload
	KeyPrefixCatalog = "bibliofind:cache:catalog:"
	// KeyPrefixSummary is the prefix of cached summaries ("summary:<sha256>" keys land under it)
	KeyPrefixSummary = "bibliofind:"
)

// CatalogKey returns the Redis key of a cached catalog response
func CatalogKey(key string) string {
	return KeyPrefixCatalog + key
}

// SummaryKey returns the Redis key of a cached summary
func SummaryKey(key string) string {
	return KeyPrefixSummary + key
}

// WishlistKey returns the Redis key of the wishlist
func WishlistKey() string {
	return KeyWishlist
}

// scanPattern matches every key under prefix
func scanPattern(prefix string) string {
	return prefix + "*"
}
