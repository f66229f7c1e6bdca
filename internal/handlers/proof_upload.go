package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/zora"
)

const maxProofImageSize = 5 << 20

var allowedProofExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// readProofImage pulls the optional payment-proof image out of the multipart
// form. No image attached is not an error.
func readProofImage(c *gin.Context) (*zora.ProofImage, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || strings.Contains(err.Error(), "no such file") {
			return nil, nil
		}
		return nil, err
	}

	extension := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedProofExtensions[extension]; !ok {
		return nil, fmt.Errorf("unsupported image type: %s", extension)
	}
	if file.Size > maxProofImageSize {
		return nil, fmt.Errorf("image file too large (max 5MB)")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxProofImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxProofImageSize {
		return nil, fmt.Errorf("image file too large (max 5MB)")
	}

	return &zora.ProofImage{Filename: file.Filename, Data: data}, nil
}
