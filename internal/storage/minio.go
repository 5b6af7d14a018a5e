package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"feira/internal/apperror"
	"feira/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps files in a MinIO/S3 bucket under the key <folder>/<name>.
type MinioStore struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewMinioStore constructs a MinIO-backed store from config.
func NewMinioStore(cfg config.MinioConfig) (*MinioStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("minio access key and secret key are required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		now:    time.Now,
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (m *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

func (m *MinioStore) Store(ctx context.Context, folder Folder, file *multipart.FileHeader) (string, error) {
	if clientBase(file.Filename) == "" {
		return "", apperror.StorageWrite(errors.New("upload has no file name"))
	}
	name := StoredName(m.now(), file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", apperror.StorageWrite(fmt.Errorf("open upload: %w", err))
	}
	defer func() { _ = src.Close() }()

	_, err = m.client.PutObject(ctx, m.bucket, objectKey(folder, name), src, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", apperror.StorageWrite(err)
	}
	return name, nil
}

// Delete removes the object. S3 semantics already treat a missing key as success.
func (m *MinioStore) Delete(ctx context.Context, folder Folder, name string) error {
	if name == "" {
		return nil
	}
	return m.client.RemoveObject(ctx, m.bucket, objectKey(folder, name), minio.RemoveObjectOptions{})
}

func (m *MinioStore) Exists(ctx context.Context, folder Folder, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	_, err := m.client.StatObject(ctx, m.bucket, objectKey(folder, name), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}

func objectKey(folder Folder, name string) string {
	return string(folder) + "/" + clientBase(name)
}
