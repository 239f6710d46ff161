package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubS3(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
			t.Fatalf("BaseEndpoint not set")
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func testOptions() S3Options {
	return S3Options{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "vivarium",
	}
}

func TestNewS3Icons_LoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = orig }()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Icons(context.Background(), testOptions())
	require.EqualError(t, err, "load-fail")
}

func TestS3Icons_IconURL_PresignsIconKey(t *testing.T) {
	stubS3(t)

	var gotBucket, gotKey string
	var gotExpiry time.Duration
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = *in.Bucket, *in.Key
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		gotExpiry = po.Expires
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/vivarium/animals/a1/icon?sig=x"}, nil
	}

	icons, err := NewS3Icons(context.Background(), testOptions())
	require.NoError(t, err)

	got, err := icons.IconURL(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/vivarium/animals/a1/icon?sig=x", got)
	assert.Equal(t, "vivarium", gotBucket)
	assert.Equal(t, "animals/a1/icon", gotKey)
	assert.Equal(t, 15*time.Minute, gotExpiry)
}

func TestS3Icons_IconURL_PresignError(t *testing.T) {
	stubS3(t)
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign-fail")
	}

	opts := testOptions()
	opts.Expiry = time.Hour
	icons, err := NewS3Icons(context.Background(), opts)
	require.NoError(t, err)

	_, err = icons.IconURL(context.Background(), "a1")
	require.EqualError(t, err, "sign-fail")
}
