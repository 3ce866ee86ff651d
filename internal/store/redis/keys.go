package redis

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// KeyPrefixVideo is the prefix for video keys
	KeyPrefixVideo = "favtube:video:"
	// KeyAllVideos is the key for the set of all video IDs
	KeyAllVideos = "favtube:videos:all"
)

// VideoKey returns the Redis key for a video by ID
func VideoKey(id primitive.ObjectID) string {
	return KeyPrefixVideo + id.Hex()
}

// AllVideosKey returns the key for the set of all video IDs
func AllVideosKey() string {
	return KeyAllVideos
}

// ExtractVideoID extracts the video ID from a Redis key
func ExtractVideoID(key string) (primitive.ObjectID, error) {
	if len(key) <= len(KeyPrefixVideo) {
		return primitive.NilObjectID, fmt.Errorf("invalid video key: %s", key)
	}
	return primitive.ObjectIDFromHex(key[len(KeyPrefixVideo):])
}
