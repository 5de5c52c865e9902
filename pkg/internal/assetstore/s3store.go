package assetstore

import (
	"context"
	"io"
	"time"

	minio "github.com/minio/minio-go/v7"

	"github.com/yeisme/recvault/pkg/internal/storage/s3"
)

// S3Store 基于 MinIO 的 Store 实现.
type S3Store struct {
	cli *s3.Client
	ns  Namespace
}

// NewS3Store 用已初始化的 S3 客户端构建资产存储.
func NewS3Store(cli *s3.Client) *S3Store {
	cfg := cli.GetConfig()

	return &S3Store{
		cli: cli,
		ns: Namespace{
			Bucket:          cfg.Bucket,
			RecordingPrefix: cfg.RecordingPrefix,
			ThumbnailPrefix: cfg.ThumbnailPrefix,
		},
	}
}

// Namespace 返回存储使用的命名空间布局.
func (s *S3Store) Namespace() Namespace {
	return s.ns
}

// Put 上传资产并返回可持久化的访问 URL.
func (s *S3Store) Put(ctx context.Context, ref AssetRef, r io.Reader, size int64, contentType string) (PutResult, error) {
	info, err := s.cli.PutObject(ctx, ref.Bucket, ref.Key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return PutResult{}, &Error{Op: "put", Ref: ref, Err: err}
	}

	cfg := s.cli.GetConfig()

	return PutResult{
		Ref:  ref,
		URL:  cfg.GetEndpointURL() + "/" + ref.Bucket + "/" + ref.Key,
		ETag: info.ETag,
		Size: info.Size,
	}, nil
}

// Remove 删除资产. 对象不存在时 MinIO 视为删除成功，不报错.
func (s *S3Store) Remove(ctx context.Context, ref AssetRef) error {
	if err := s.cli.RemoveObject(ctx, ref.Bucket, ref.Key, minio.RemoveObjectOptions{}); err != nil {
		return &Error{Op: "remove", Ref: ref, Err: err}
	}

	return nil
}

// PresignGet 生成预签名下载 URL.
func (s *S3Store) PresignGet(ctx context.Context, ref AssetRef, expiry time.Duration) (string, error) {
	u, err := s.cli.PresignedGetObject(ctx, ref.Bucket, ref.Key, expiry, nil)
	if err != nil {
		return "", &Error{Op: "presign", Ref: ref, Err: err}
	}

	return u.String(), nil
}
