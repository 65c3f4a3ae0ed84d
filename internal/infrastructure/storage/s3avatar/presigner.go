package s3avatar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/riskibarqy/pawmatch/internal/usecase"
)

// PresignAPI is the subset of s3.PresignClient used for avatar uploads.
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Presigner signs avatar uploads into a single bucket.
type Presigner struct {
	client        PresignAPI
	bucket        string
	publicBaseURL string
	region        string
}

// New builds a Presigner. publicBaseURL is the CDN or bucket origin avatars
// are served from; when empty the virtual-hosted bucket URL is used.
func New(client PresignAPI, bucket, region, publicBaseURL string) *Presigner {
	return &Presigner{
		client:        client,
		bucket:        strings.TrimSpace(bucket),
		region:        strings.TrimSpace(region),
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

// NewFromConfig wires a Presigner on top of an S3 client built from cfg.
func NewFromConfig(cfg aws.Config, bucket, publicBaseURL string) *Presigner {
	return New(s3.NewPresignClient(s3.NewFromConfig(cfg)), bucket, cfg.Region, publicBaseURL)
}

func (p *Presigner) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (usecase.PresignedUpload, error) {
	if p.bucket == "" {
		return usecase.PresignedUpload{}, fmt.Errorf("avatar bucket is not configured")
	}

	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return usecase.PresignedUpload{}, fmt.Errorf("presign put object key=%s: %w", key, err)
	}

	return usecase.PresignedUpload{
		URL:     req.URL,
		Method:  req.Method,
		Headers: flattenHeader(req.SignedHeader),
	}, nil
}

func (p *Presigner) PublicURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if p.publicBaseURL != "" {
		return p.publicBaseURL + "/" + escaped
	}
	if p.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", p.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, escaped)
}

func flattenHeader(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		// Host is implied by the URL
		if strings.EqualFold(k, "Host") {
			continue
		}
		out[k] = strings.Join(v, ",")
	}
	return out
}
