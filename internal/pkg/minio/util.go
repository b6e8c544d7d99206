package minio

import (
	"Atelier/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

const presignExpiry = 24 * time.Hour

// URLResolver 把库里保存的对象 key 转为可访问的 URL
type URLResolver interface {
	Resolve(ctx context.Context, src string) string
}

type urlResolver struct {
	client     *minio.Client
	bucket     string
	cfg        config.MinIOConfig
	defaultURL string
}

// NewURLResolver client 为 nil 时原样返回 src
func NewURLResolver(client *minio.Client, cfg config.MinIOConfig, defaultURL string) URLResolver {
	return &urlResolver{client: client, bucket: cfg.MainBucket, cfg: cfg, defaultURL: defaultURL}
}

func (s *urlResolver) Resolve(ctx context.Context, src string) string {
	if src == "" {
		src = s.defaultURL
	}
	if src == "" || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	if s.cfg.UsePublicLink && s.cfg.ExternalEndpoint != "" {
		return GetPublicURL(s.cfg.ExternalEndpoint, s.bucket, src)
	}
	if s.client == nil {
		return src
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, src, presignExpiry, url.Values{})
	if err != nil {
		log.WarnContext(ctx, "presign object failed", "object", src, "err", err)
		return src
	}
	return u.String()
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(endpoint, bucket, objectName string) string {
	return fmt.Sprintf("https://%s/%s/%s", endpoint, bucket, strings.TrimPrefix(objectName, "/"))
}
