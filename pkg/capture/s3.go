package capture

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/vango-dev/scenesync/pkg/protocol"
)

// ContentType is the MIME type of uploaded captures.
const ContentType = "application/vnd.scenesync.frames"

// PutObjectAPI is the part of *s3.Client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink buffers frames in memory and uploads them as one object on Close.
//
// Example usage:
//
//	client, err := capture.NewS3Client(ctx, "eu-west-1")
//	if err != nil {
//		return err
//	}
//	sink := capture.NewS3Sink(client, "my-bucket", "captures/", sessionID)
//	defer sink.Close()
type S3Sink struct {
	client  PutObjectAPI
	bucket  string
	key     string
	timeout time.Duration
	started time.Time

	mu     sync.Mutex
	buf    bytes.Buffer
	frames int
	closed bool
}

// NewS3Sink creates a sink that uploads to bucket under prefix+name+".scn".
// An empty name is replaced with a random UUID.
func NewS3Sink(client PutObjectAPI, bucket, prefix, name string) *S3Sink {
	if name == "" {
		name = uuid.NewString()
	}
	return &S3Sink{
		client:  client,
		bucket:  bucket,
		key:     prefix + name + FileExt,
		timeout: 30 * time.Second,
		started: time.Now(),
	}
}

// WithTimeout sets how long Close waits for the upload.
func (s *S3Sink) WithTimeout(d time.Duration) *S3Sink {
	s.timeout = d
	return s
}

// Key returns the object key the capture is uploaded to.
func (s *S3Sink) Key() string {
	return s.key
}

// WriteFrame implements Sink.
func (s *S3Sink) WriteFrame(f *protocol.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := protocol.WriteFrame(&s.buf, f); err != nil {
		return err
	}
	s.frames++
	return nil
}

// Close uploads the buffered capture.
func (s *S3Sink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.CloseContext(ctx)
}

// CloseContext uploads the buffered capture using ctx. Closing twice
// uploads once.
func (s *S3Sink) CloseContext(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(s.buf.Bytes()),
		ContentType: aws.String(ContentType),
		Metadata: map[string]string{
			"frames":     strconv.Itoa(s.frames),
			"started-at": s.started.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("capture: s3 upload failed: %w", err)
	}
	s.buf.Reset()
	return nil
}

// NewS3Client returns an S3 client for region using the SDK's default
// credential chain: environment, shared config and credentials files, SSO,
// and container or instance roles. An empty region keeps the region from
// that chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("capture: load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}
