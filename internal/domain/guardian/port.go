package guardian

import "context"

// Archive stores finished reviews outside the CI log.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
