package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"

	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// UploadProductImageHandler stores an uploaded image and a 200px thumbnail
// in GCS, returning access URLs. The client attaches the image URL to the
// product via the product update endpoint.
func UploadProductImageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}
		mimeType := fileHeader.Header.Get("Content-Type")
		ext, ok := imageMimeTypes[mimeType]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
		if err != nil {
			respondError(c, err)
			return
		}
		if int64(len(data)) > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}

		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image data"})
			return
		}

		businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		objectKey := fmt.Sprintf("%s/products/%s%s", businessId, utils.GenerateUniqueFilename(), ext)
		if err := utils.UploadBytesToGCS(c.Request.Context(), objectKey, data, mimeType); err != nil {
			respondError(c, err)
			return
		}

		thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
			respondError(c, err)
			return
		}
		thumbnailKey := path.Join(path.Dir(objectKey), "thumbnails", path.Base(objectKey))
		if err := utils.UploadBytesToGCS(c.Request.Context(), thumbnailKey, buf.Bytes(), "image/jpeg"); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"image_url":     utils.BuildObjectAccessURL(objectKey),
			"thumbnail_url": utils.BuildObjectAccessURL(thumbnailKey),
		})
	}
}
