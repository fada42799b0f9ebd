package storage

import (
	"context"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"
)

// AvatarTransformation crops avatars to a square thumbnail around the face.
const AvatarTransformation = "c_thumb,g_face,h_256,w_256"

// CloudinaryAvatars resolves avatar public ids to Cloudinary delivery URLs.
type CloudinaryAvatars struct {
	cld    *cloudinary.Cloudinary
	logger *zap.Logger
}

// NewCloudinaryAvatars creates a resolver backed by cld.
func NewCloudinaryAvatars(cld *cloudinary.Cloudinary, logger *zap.Logger) *CloudinaryAvatars {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloudinaryAvatars{cld: cld, logger: logger}
}

// AvatarURL builds the delivery URL for ref. Absolute URLs are returned as-is,
// and a reference Cloudinary cannot render falls back to the raw value.
func (s *CloudinaryAvatars) AvatarURL(ctx context.Context, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	img, err := s.cld.Image(ref)
	if err != nil {
		s.logger.Warn("CloudinaryAvatars: failed to build asset", zap.String("ref", ref), zap.Error(err))
		return ref
	}
	img.Transformation = AvatarTransformation
	url, err := img.String()
	if err != nil {
		s.logger.Warn("CloudinaryAvatars: failed to render URL", zap.String("ref", ref), zap.Error(err))
		return ref
	}
	return url
}
