package storage

import (
	"os"
	"strings"

	"courseware/db"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

const (
	StorageLocationIllustrations = "/illustrations"
	StorageLocationEnrollments   = "/enrollments"
)

type Bucket struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Name        string `gorm:"type:varchar(200)"`
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	AuthDetails string // Authentication details. In case of S3 bucket - "key:secret"
	Region      string `gorm:"type:varchar(32)"`
	Endpoint    string `gorm:"type:varchar(300)"`
	// SSEEncryption, if set, is passed as-is to S3 uploads, e.g. "AES256"
	SSEEncryption string `gorm:"type:varchar(20)"`
}

func (b *Bucket) Create() error {
	err := db.Instance.Create(b).Error
	if err != nil {
		return err
	}
	if b.StorageType == StorageTypeFile {
		// Pre-create locations on disk
		if err = os.MkdirAll(b.Path+StorageLocationIllustrations, 0777); err != nil {
			return err
		}
		if err = os.MkdirAll(b.Path+StorageLocationEnrollments, 0777); err != nil {
			return err
		}
	}
	return nil
}

// GetRemotePath prefixes the object key with the bucket path, if any
func (b *Bucket) GetRemotePath(path string) string {
	if b.Path == "" {
		return path
	}
	return strings.TrimSuffix(b.Path, "/") + "/" + strings.TrimPrefix(path, "/")
}

// CreateSVC creates a new S3 client for the bucket
func (b *Bucket) CreateSVC() *s3.S3 {
	creds := strings.SplitN(b.AuthDetails, ":", 2)
	if len(creds) != 2 {
		creds = []string{"", ""}
	}
	awsConfig := aws.Config{
		Credentials: credentials.NewStaticCredentials(creds[0], creds[1], ""),
		Region:      aws.String(b.Region),
	}
	if b.Endpoint != "" {
		awsConfig.Endpoint = aws.String(b.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	return s3.New(session.Must(session.NewSession(&awsConfig)))
}
