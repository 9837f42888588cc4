// Where: internal/infra/mirror/s3.go
// What: S3 adapter for the build mirror.
// Why: Map mirror objects to SDK PutObject calls.
package mirror

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/itchdeploy/internal/infra/awsclient"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Putter struct {
	client s3API
}

// NewS3Putter builds an ObjectPutter from AWS options. A custom endpoint
// switches to path-style addressing for S3-compatible stores.
func NewS3Putter(ctx context.Context, opts awsclient.Options) (ObjectPutter, error) {
	cfg, err := awsclient.LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	endpoint := awsclient.EndpointOrNil(opts.Endpoint)
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != nil {
			options.BaseEndpoint = endpoint
			options.UsePathStyle = true
		}
	})
	return s3Putter{client: client}, nil
}

func (p s3Putter) PutObject(ctx context.Context, object Object) error {
	file, err := openObject(object)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(object.Bucket),
		Key:           aws.String(object.Key),
		Body:          file,
		ContentType:   aws.String(object.ContentType),
		ContentLength: aws.Int64(object.Size),
	})
	return err
}
