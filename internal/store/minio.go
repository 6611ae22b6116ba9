// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// MinioStore keeps records in an S3-compatible object store, one JSON
// object per record under the date prefix.
type MinioStore struct {
	client *miniogo.Client
	bucket string
}

// NewMinioStore connects to the object store and ensures the bucket
// exists.
func NewMinioStore(ctx context.Context, cfg types.StorageConfig) (*MinioStore, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "paper-summaries"
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, miniogo.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: bucket}, nil
}

// Put uploads the record, overwriting any existing object for the key.
func (s *MinioStore) Put(ctx context.Context, date, id string, rec *types.SummaryRecord) error {
	if err := ValidateKey(date, id); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", id, err)
	}

	key := ObjectKey(date, id)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("uploading record %s: %w", key, err)
	}
	return nil
}

// Get downloads and decodes one record; a missing key maps to ErrNotFound.
func (s *MinioStore) Get(ctx context.Context, date, id string) (*types.SummaryRecord, error) {
	key := ObjectKey(date, id)
	obj, err := s.client.GetObject(ctx, s.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching record %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// GetObject is lazy; missing keys surface on the first read.
		if miniogo.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading record %s: %w", key, err)
	}

	var rec types.SummaryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", key, err)
	}
	return &rec, nil
}

// List enumerates the date prefix and decodes each object. Objects that
// fail to download or decode are counted and skipped; an empty prefix is
// an empty listing, not an error.
func (s *MinioStore) List(ctx context.Context, date string) ([]*types.SummaryRecord, int, error) {
	prefix := date + "/"

	var records []*types.SummaryRecord
	skipped := 0
	for info := range s.client.ListObjects(ctx, s.bucket, miniogo.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, skipped, fmt.Errorf("listing prefix %s: %w", prefix, info.Err)
		}
		if !strings.HasSuffix(info.Key, ".json") {
			continue
		}

		id := strings.TrimSuffix(strings.TrimPrefix(info.Key, prefix), ".json")
		rec, err := s.Get(ctx, date, id)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}
