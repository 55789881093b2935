package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UploadURLExpiry is how long a presigned upload URL stays valid.
const UploadURLExpiry = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageExtension returns the file extension for an accepted image type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}

// UserPhotoKey names a new photo object for a user.
func UserPhotoKey(userID, ext string) string {
	return fmt.Sprintf("users/%s/%s.%s", userID, uuid.NewString(), ext)
}

// TourImageKey names a new image object for a tour.
func TourImageKey(tourID, ext string) string {
	return fmt.Sprintf("tours/%s/%s.%s", tourID, uuid.NewString(), ext)
}
