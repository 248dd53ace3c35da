package storage

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// S3Store stores media in a single S3 bucket via the minio client.
// Keys map directly to object names.
type S3Store struct {
	client *minio.Client
	bucket string
}

func NewS3Store(client *minio.Client, bucket string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
	}
}

func (s *S3Store) Write(ctx context.Context, key string, data []byte) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/webp"})
	return err
}

func (s *S3Store) Read(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()
	return io.ReadAll(object)
}

// Delete removes the object for key. S3 deletes are idempotent, and
// object stores have no file-locking semantics, so no error here is
// ever transient.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && strings.Contains(err.Error(), "key does not exist") {
		// May have been deleted in a prior run.
		return nil
	}
	return err
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	errResp := minio.ToErrorResponse(err)
	if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
		return false, nil
	}
	return false, err
}

// ResolvePath always fails for S3: object keys have no local paths, so
// there are no empty directories to clean up.
func (s *S3Store) ResolvePath(key string) (string, error) {
	return "", ErrNoLocalPath
}
