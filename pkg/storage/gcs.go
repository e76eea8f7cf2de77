package storage

import (
	"bytes"
	"context"
	"errors"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/taskmaster/pkg/helpers"
)

// GCS keeps one object per key in a bucket, so a task list can follow a user
// across machines.
type GCS struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCS(ctx context.Context, credsPath, bucket, prefix string) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("gcs storage requires a bucket")
	}
	client, err := helpers.NewGCSClient(ctx, credsPath)
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "taskmaster/"
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

func (g *GCS) object(key string) string { return g.prefix + key + ".json" }

func (g *GCS) Get(ctx context.Context, key string) (string, bool, error) {
	data, found, err := helpers.DownloadObject(ctx, g.client, g.bucket, g.object(key))
	if err != nil || !found {
		return "", false, err
	}
	return string(data), true, nil
}

func (g *GCS) Set(ctx context.Context, key, value string) error {
	return helpers.UploadObject(ctx, g.client, g.bucket, g.object(key), "application/json", bytes.NewBufferString(value))
}

func (g *GCS) Remove(ctx context.Context, key string) error {
	return helpers.DeleteObject(ctx, g.client, g.bucket, g.object(key))
}

func (g *GCS) Close() error { return g.client.Close() }
