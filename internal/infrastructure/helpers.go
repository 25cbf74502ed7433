package infrastructure

import (
	"mime"
	"strings"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
)

const unknownExtension = "bin"

// imageExtensions — расширения объектов в бакете для поддерживаемых типов изображений.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// GetExtensionFromMIME возвращает расширение для Content-Type изображения.
// Регистр и параметры (`; charset=...`) не учитываются.
func GetExtensionFromMIME(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	ext, ok := imageExtensions[mediaType]
	if !ok {
		return unknownExtension, e.ErrUnsupportedMediaType
	}

	return ext, nil
}
