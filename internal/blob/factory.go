package blob

import (
	"context"
	"fmt"
	"os"

	infraS3 "antigenseq/internal/infra/blob/s3"
)

// Environment variables read by Open.
const (
	EnvDriver = "ANTIGENSEQ_BLOB_DRIVER"
	EnvFSRoot = "ANTIGENSEQ_BLOB_FS_ROOT"
)

// Open selects a Store from the environment:
//
//	ANTIGENSEQ_BLOB_DRIVER   fs|s3|memory (default fs)
//	ANTIGENSEQ_BLOB_FS_ROOT  root directory for fs (default ./blobdata)
//	ANTIGENSEQ_BLOB_S3_*     bucket, region, endpoint and path style for s3
func Open(ctx context.Context) (Store, error) {
	driver := Driver(os.Getenv(EnvDriver))
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv(EnvFSRoot))
	case DriverS3:
		cfg, err := infraS3.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		return NewS3(ctx, cfg)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", driver)
	}
}
