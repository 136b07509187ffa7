package service

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/oss"
)

var (
	ErrInvalidImageType = errors.New("Invalid image type. Allowed: JPEG, PNG, GIF, HEIC, HEIF")
	ErrImageTooLarge    = errors.New("Image size must be 5MB or less")
	ErrInvalidImageData = errors.New("Invalid base64 image data")
)

const defaultMaxPictureSize = 5 * 1024 * 1024

// Picture 待保存的头像
type Picture struct {
	Data        []byte
	ContentType string
}

// DecodeBase64Picture 解析 base64 图片，兼容 data:image/png;base64, 前缀
func DecodeBase64Picture(encoded, contentType string) (*Picture, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		comma := strings.Index(encoded, ",")
		if comma < 0 {
			return nil, ErrInvalidImageData
		}
		header := encoded[len("data:"):comma]
		if contentType == "" {
			contentType = strings.TrimSuffix(header, ";base64")
		}
		encoded = encoded[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidImageData
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &Picture{Data: data, ContentType: strings.ToLower(contentType)}, nil
}

// pictureStore 头像存储：配置了 OSS 时上传，否则以 base64 存入数据库
type pictureStore struct {
	uploader oss.Uploader
	maxSize  int64
	allowed  map[string]struct{}
}

func newPictureStore(uploader oss.Uploader, cfg config.UploadConfig) *pictureStore {
	store := &pictureStore{
		uploader: uploader,
		maxSize:  cfg.MaxSize,
		allowed:  make(map[string]struct{}),
	}
	if store.maxSize <= 0 {
		store.maxSize = defaultMaxPictureSize
	}
	types := cfg.AllowedContentTypes
	if len(types) == 0 {
		types = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/heic", "image/heif"}
	}
	for _, t := range types {
		store.allowed[strings.ToLower(t)] = struct{}{}
	}
	return store
}

func (p *pictureStore) validate(pic *Picture) error {
	if _, ok := p.allowed[strings.ToLower(pic.ContentType)]; !ok {
		return ErrInvalidImageType
	}
	if len(pic.Data) == 0 {
		return ErrInvalidImageData
	}
	if int64(len(pic.Data)) > p.maxSize {
		return ErrImageTooLarge
	}
	return nil
}

// save 返回需要写回数据库的列；oldURL 为之前的 OSS 地址，上传成功后尽力删除
func (p *pictureStore) save(owner string, id int64, pic *Picture, oldURL string) (map[string]interface{}, error) {
	if err := p.validate(pic); err != nil {
		return nil, err
	}

	if p.uploader == nil {
		return map[string]interface{}{
			"profile_picture_url":          "",
			"profile_picture_base64":       base64.StdEncoding.EncodeToString(pic.Data),
			"profile_picture_content_type": pic.ContentType,
		}, nil
	}

	url, err := p.uploader.UploadProfilePicture(owner, id, pic.Data, pic.ContentType)
	if err != nil {
		return nil, err
	}
	if oldURL != "" {
		if err := p.uploader.Delete(p.uploader.ExtractObjectKey(oldURL)); err != nil {
			logging.Warn().Err(err).Str("url", oldURL).Msg("failed to delete old profile picture")
		}
	}

	return map[string]interface{}{
		"profile_picture_url":          url,
		"profile_picture_base64":       "",
		"profile_picture_content_type": pic.ContentType,
	}, nil
}
