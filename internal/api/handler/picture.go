package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/service"
)

var errNoPicture = errors.New("Please upload a file or provide profile_picture_base64")

// readPicture 兼容 multipart 的 file 字段和 JSON base64 两种上传方式
func readPicture(c *gin.Context, maxSize int64) (*service.Picture, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			return nil, errNoPicture
		}
		defer file.Close()

		if maxSize > 0 && header.Size > maxSize {
			return nil, service.ErrImageTooLarge
		}
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		return &service.Picture{Data: data, ContentType: strings.ToLower(contentType)}, nil
	}

	var req dto.UploadPictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errNoPicture
	}
	return service.DecodeBase64Picture(req.ProfilePictureBase64, req.ContentType)
}
