package etl

import (
	"bealive-agent-backend/config"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// Source reads the bytes of a company document.
type Source interface {
	Fetch(ctx context.Context, objectName string) ([]byte, error)
}

type OSSSource struct {
	client *oss.Client
	bucket string
}

var _ Source = &OSSSource{}

func NewOSSSource(cfg config.OSSConfig) *OSSSource {
	ossCfg := &oss.Config{
		Region: oss.Ptr(cfg.Region),
		CredentialsProvider: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
		),
	}
	return &OSSSource{
		client: oss.NewClient(ossCfg),
		bucket: cfg.BucketName,
	}
}

func (s *OSSSource) Fetch(ctx context.Context, objectName string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(objectName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from oss: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// LocalSource reads documents from the local filesystem; object names are paths.
type LocalSource struct{}

var _ Source = LocalSource{}

func (LocalSource) Fetch(_ context.Context, objectName string) ([]byte, error) {
	return os.ReadFile(objectName)
}
