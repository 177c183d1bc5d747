// Package s3 guarda imágenes de producto en un bucket compatible con S3.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL es la base de las URLs devueltas; por defecto endpoint/bucket.
	PublicURL string
}

type Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket requerido")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, errors.New("S3_ACCESS_KEY y S3_SECRET_KEY van juntos")
		}
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("config AWS: %w", err)
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	public := strings.TrimRight(cfg.PublicURL, "/")
	if public == "" {
		if endpoint != "" {
			public = endpoint + "/" + cfg.Bucket
		} else {
			public = "https://" + cfg.Bucket + ".s3." + region + ".amazonaws.com"
		}
	}
	return &Storage{client: client, bucket: cfg.Bucket, publicURL: public}, nil
}

// Save sube el objeto con clave name y devuelve su URL pública.
func (s *Storage) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	key := strings.TrimLeft(name, "/")
	if key == "" {
		return "", errors.New("clave vacía")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("subir %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// Delete borra el objeto de una URL devuelta por Save; URLs ajenas se ignoran.
func (s *Storage) Delete(ctx context.Context, path string) error {
	if !strings.HasPrefix(path, s.publicURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(path, s.publicURL+"/")
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("borrar %s: %w", key, err)
	}
	return nil
}
