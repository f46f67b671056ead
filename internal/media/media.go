// Package media turns catalog image references into URLs a browser can
// fetch.
package media

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"engmarket/internal/models"
)

// Resolver maps a stored image reference to a URL.
type Resolver interface {
	Resolve(ref string) (string, error)
}

func isAbsolute(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// PublicResolver prefixes relative references with BaseURL. An empty
// BaseURL leaves references untouched.
type PublicResolver struct {
	BaseURL string
}

func (r PublicResolver) Resolve(ref string) (string, error) {
	if ref == "" || r.BaseURL == "" || isAbsolute(ref) {
		return ref, nil
	}
	return strings.TrimRight(r.BaseURL, "/") + "/" + strings.TrimLeft(ref, "/"), nil
}

type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Expiry    time.Duration
}

// S3Resolver presigns GET requests for objects in an S3 compatible bucket.
type S3Resolver struct {
	client *s3.S3
	bucket string
	expiry time.Duration
}

func NewS3Resolver(cfg S3Config) (*S3Resolver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media: empty bucket")
	}
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("media: s3 session: %w", err)
	}
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3Resolver{client: s3.New(sess), bucket: cfg.Bucket, expiry: expiry}, nil
}

func (r *S3Resolver) Resolve(ref string) (string, error) {
	if ref == "" || isAbsolute(ref) {
		return ref, nil
	}
	req, _ := r.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimLeft(ref, "/")),
	})
	signed, err := req.Presign(r.expiry)
	if err != nil {
		return "", fmt.Errorf("media: presign %s: %w", ref, err)
	}
	return signed, nil
}

// ResolveService rewrites the service images and the provider avatar in
// place. A nil resolver is a no-op.
func ResolveService(r Resolver, s *models.Service) error {
	if r == nil {
		return nil
	}
	for i, img := range s.Images {
		u, err := r.Resolve(img)
		if err != nil {
			return err
		}
		s.Images[i] = u
	}
	return ResolveProvider(r, &s.Provider)
}

func ResolveProvider(r Resolver, p *models.Provider) error {
	if r == nil {
		return nil
	}
	u, err := r.Resolve(p.Avatar)
	if err != nil {
		return err
	}
	p.Avatar = u
	return nil
}
