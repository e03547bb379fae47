// Package artifacts stores generated report documents in an S3-compatible
// object store and hands out presigned URLs for download. The visual rendering
// of a report is outside this service; the stored artifact is the report data
// document itself.
package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	presignExpiry = 24 * time.Hour
	objectPrefix  = "report_"
	objectSuffix  = ".json"
)

// Store persists report artifacts in a MinIO bucket
type Store struct {
	client *minio.Client
	bucket string
}

// Config holds object storage connection settings
type Config struct {
	Address   string // host:port
	UseSSL    bool
	AccessKey string
	SecretKey string
	Bucket    string
}

// NewStore creates a MinIO-backed artifact store. The client is lazy: no
// connection is made until the first operation.
func NewStore(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Address, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// ObjectName returns the bucket key for a report date
func ObjectName(dateKey string) string {
	return objectPrefix + dateKey + objectSuffix
}

// ensureBucket creates the bucket on first use
func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket check failed: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
		log.Printf("✅ Bucket %s created", s.bucket)
	}
	return nil
}

// PutReport uploads the report document for a date and returns a presigned
// download URL. An existing artifact for the same date is replaced.
func (s *Store) PutReport(ctx context.Context, dateKey string, report any) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, ObjectName(dateKey),
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload report artifact: %w", err)
	}

	return s.PresignedURL(ctx, dateKey)
}

// ReportExists reports whether an artifact has been generated for the date
func (s *Store) ReportExists(ctx context.Context, dateKey string) (bool, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return false, err
	}

	_, err := s.client.StatObject(ctx, s.bucket, ObjectName(dateKey), minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat report artifact: %w", err)
	}
	return true, nil
}

// PresignedURL returns a time-limited download URL for a date's artifact
func (s *Store) PresignedURL(ctx context.Context, dateKey string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, ObjectName(dateKey), presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign report artifact: %w", err)
	}
	return u.String(), nil
}

// ListReportDates returns the date keys of every stored artifact, newest first
func (s *Store) ListReportDates(ctx context.Context) ([]string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	var dates []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: objectPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list report artifacts: %w", obj.Err)
		}
		name := obj.Key
		if !strings.HasPrefix(name, objectPrefix) || !strings.HasSuffix(name, objectSuffix) {
			continue
		}
		dates = append(dates, strings.TrimSuffix(strings.TrimPrefix(name, objectPrefix), objectSuffix))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// DeleteAll removes every stored artifact and returns how many were deleted
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return 0, err
	}

	deleted := 0
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return deleted, fmt.Errorf("failed to list report artifacts: %w", obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return deleted, fmt.Errorf("failed to delete artifact %s: %w", obj.Key, err)
		}
		deleted++
	}
	return deleted, nil
}
