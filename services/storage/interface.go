package storage

import "context"

// AvatarResolver turns a stored avatar reference into a displayable URL.
type AvatarResolver interface {
	AvatarURL(ctx context.Context, ref string) string
}

// PassthroughAvatars returns references unchanged. Used when no media CDN is configured.
type PassthroughAvatars struct{}

func (PassthroughAvatars) AvatarURL(_ context.Context, ref string) string {
	return ref
}
