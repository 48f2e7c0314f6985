package service

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	// MaxAvatarBytes caps the size of an uploaded avatar image.
	MaxAvatarBytes = 1 << 20 // 1MB

	// avatarSize is the edge length of the stored square avatar.
	avatarSize = 250
)

// acceptedAvatarFormats lists the decode formats an upload may arrive
// in. Everything is re-encoded as PNG before storage.
var acceptedAvatarFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
}

// NormalizeAvatar validates an uploaded avatar image and converts it to
// the canonical stored form: a 250x250 PNG, center-cropped to square.
// Returns ErrAvatarTooLarge or ErrUnsupportedAvatarFormat for rejected
// uploads.
func NormalizeAvatar(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrUnsupportedAvatarFormat
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || !acceptedAvatarFormats[format] {
		return nil, ErrUnsupportedAvatarFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrUnsupportedAvatarFormat
	}

	resized := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
