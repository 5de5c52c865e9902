// Package assetstore 抽象录制资产的远端存储：上传、删除与预签名下载.
// 上传返回 AssetRef 值对象，删除直接消费 AssetRef，避免在调用方反复解析 URL.
package assetstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"
)

// Kind 资产类型，决定资产所在的命名空间.
type Kind string

const (
	// KindVideo 录制主资产.
	KindVideo Kind = "video"
	// KindImage 缩略图资产.
	KindImage Kind = "image"
)

// AssetRef 指向对象存储中一个资产的不可变引用.
type AssetRef struct {
	Bucket string
	Key    string
	Kind   Kind
}

// IsZero 返回引用是否为空.
func (r AssetRef) IsZero() bool {
	return r.Key == ""
}

// String 实现 fmt.Stringer，用于日志.
func (r AssetRef) String() string {
	return r.Bucket + "/" + r.Key
}

// PutResult 上传结果.
type PutResult struct {
	Ref  AssetRef
	URL  string
	ETag string
	Size int64
}

// Store 资产存储接口.
// Remove 对不存在的对象不报错（对象存储删除语义），网络/服务端错误以 *Error 返回.
type Store interface {
	Put(ctx context.Context, ref AssetRef, r io.Reader, size int64, contentType string) (PutResult, error)
	Remove(ctx context.Context, ref AssetRef) error
	PresignGet(ctx context.Context, ref AssetRef, expiry time.Duration) (string, error)
}

// Error 包装资产存储操作失败.
type Error struct {
	Op  string
	Ref AssetRef
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("assetstore: %s %s: %v", e.Op, e.Ref, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Namespace 描述资产在桶内的命名空间布局.
type Namespace struct {
	Bucket          string
	RecordingPrefix string
	ThumbnailPrefix string
}

// prefixFor 返回资产类型对应的命名空间前缀.
func (n Namespace) prefixFor(kind Kind) string {
	if kind == KindImage {
		return n.ThumbnailPrefix
	}

	return n.RecordingPrefix
}

// RecordingRef 构建录制主资产引用.
// 对象键不带扩展名，保证 URL 末段解析能精确还原键名.
func (n Namespace) RecordingRef(recordingID string) AssetRef {
	return AssetRef{
		Bucket: n.Bucket,
		Key:    n.RecordingPrefix + "/" + recordingID,
		Kind:   KindVideo,
	}
}

// ThumbnailRef 构建缩略图资产引用.
func (n Namespace) ThumbnailRef(recordingID string) AssetRef {
	return AssetRef{
		Bucket: n.Bucket,
		Key:    n.ThumbnailPrefix + "/" + recordingID,
		Kind:   KindImage,
	}
}

// RefFromURL 从已存储的资产 URL 推导删除用引用（兼容历史数据的解析规则）：
// 取 URL 路径最后一段，去掉扩展名，再拼上固定命名空间前缀.
// 该解析与历史记录的删除键派生保持逐字节一致，不要改动.
func (n Namespace) RefFromURL(rawURL string, kind Kind) (AssetRef, error) {
	if strings.TrimSpace(rawURL) == "" {
		return AssetRef{}, fmt.Errorf("empty asset url")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return AssetRef{}, fmt.Errorf("parse asset url: %w", err)
	}

	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return AssetRef{}, fmt.Errorf("asset url %q has no path segment", rawURL)
	}

	id := strings.TrimSuffix(base, path.Ext(base))
	if id == "" {
		return AssetRef{}, fmt.Errorf("asset url %q yields empty id", rawURL)
	}

	return AssetRef{
		Bucket: n.Bucket,
		Key:    n.prefixFor(kind) + "/" + id,
		Kind:   kind,
	}, nil
}
