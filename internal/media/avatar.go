package media

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

type Avatars struct {
	uploader Uploader
}

func NewAvatars(uploader Uploader) *Avatars {
	return &Avatars{uploader: uploader}
}

// Upload stores a new avatar for the contractor and returns its public URL.
// Every upload gets a fresh key so cached copies never go stale.
func (a *Avatars) Upload(ctx context.Context, contractorID uuid.UUID, r io.Reader) (string, error) {
	body, err := EncodeAvatar(r, AvatarSize)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s/%s.webp", contractorID, uuid.NewString())
	return a.uploader.Put(ctx, key, body, "image/webp")
}
