package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"aperturama/internal/aperture"
	"aperturama/internal/config"
)

// s3Client is the subset of the S3 API the vault uses.
type s3Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Vault stores media artifacts as objects:
//
//	<prefix>originals/<id><ext>
//	<prefix>thumbnails/<id>.thumbnail.jpg
//
// An object becomes visible only once its upload completes, so readers
// never observe a partial artifact.
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   s3Client
	uploader *manager.Uploader
}

// NewS3Vault builds a vault from the default AWS configuration chain,
// overridden by the region, endpoint and static credentials in cfg.
func NewS3Vault(ctx context.Context, cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	var opts []func(*awsConfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Vault(cfg.Name, cfg.S3Bucket, cfg.S3Prefix, client), nil
}

func newS3Vault(name, bucket, prefix string, client s3Client) *S3Vault {
	return &S3Vault{
		name:     name,
		bucket:   bucket,
		prefix:   prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

func (v *S3Vault) originalKey(mediaID int64, ext string) string {
	return v.prefix + path.Join("originals", aperture.OriginalName(mediaID, ext))
}

func (v *S3Vault) thumbnailKey(mediaID int64) string {
	return v.prefix + path.Join("thumbnails", aperture.ThumbnailName(mediaID))
}

func (v *S3Vault) put(ctx context.Context, key string, r io.Reader, size int64) error {
	counted := &countingReader{r: r}
	_, err := v.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(key),
		Body:   counted,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if counted.n != size {
		err := fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counted.n)
		if _, delErr := v.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(v.bucket),
			Key:    aws.String(key),
		}); delErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to remove %s: %w", key, delErr))
		}
		return err
	}
	return nil
}

func (v *S3Vault) PutThumbnail(ctx context.Context, mediaID int64, r io.Reader, size int64) error {
	return v.put(ctx, v.thumbnailKey(mediaID), r, size)
}

func (v *S3Vault) CommitOriginal(ctx context.Context, mediaID int64, ext string, upload aperture.StagedUpload) error {
	rc, err := upload.Open()
	if err != nil {
		return fmt.Errorf("failed to open staged upload: %w", err)
	}
	defer rc.Close()
	return v.put(ctx, v.originalKey(mediaID, ext), rc, upload.Size())
}

func (v *S3Vault) get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", aperture.ErrArtifactNotFound, key)
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return out.Body, nil
}

func (v *S3Vault) OpenOriginal(ctx context.Context, mediaID int64, ext string) (io.ReadCloser, error) {
	return v.get(ctx, v.originalKey(mediaID, ext))
}

func (v *S3Vault) OpenThumbnail(ctx context.Context, mediaID int64) (io.ReadCloser, error) {
	return v.get(ctx, v.thumbnailKey(mediaID))
}

func (v *S3Vault) exists(ctx context.Context, key string) (bool, error) {
	_, err := v.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return true, nil
}

func (v *S3Vault) HasOriginal(ctx context.Context, mediaID int64, ext string) (bool, error) {
	return v.exists(ctx, v.originalKey(mediaID, ext))
}

func (v *S3Vault) HasThumbnail(ctx context.Context, mediaID int64) (bool, error) {
	return v.exists(ctx, v.thumbnailKey(mediaID))
}

// DeleteMedia removes both objects. S3 deletes of absent keys succeed.
func (v *S3Vault) DeleteMedia(ctx context.Context, mediaID int64, ext string) error {
	var errs []error
	for _, key := range []string{v.thumbnailKey(mediaID), v.originalKey(mediaID, ext)} {
		_, err := v.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(v.bucket),
			Key:    aws.String(key),
		})
		if err != nil && !isNotFound(err) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateSetup verifies that the bucket exists and is reachable.
func (v *S3Vault) ValidateSetup(ctx context.Context) error {
	_, err := v.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(v.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var _ aperture.Vault = (*S3Vault)(nil)
