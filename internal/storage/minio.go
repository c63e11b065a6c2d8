package storage

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/kodekamper/api/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PhotoBucket holds uploaded bootcamp photos.
const PhotoBucket = "bootcamp-photos"

var MinioClient *minio.Client

func InitMinio() {
	endpoint := config.Getenv("MINIO_ENDPOINT", "localhost:9000")
	accessKey := config.Getenv("MINIO_ACCESS_KEY", "minioadmin")
	secretKey := config.Getenv("MINIO_SECRET_KEY", "minioadmin")

	useSSL := false // Set to true if using HTTPS

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, PhotoBucket)
	if err != nil {
		log.Printf("Warning: Failed to check bucket existence: %v", err)
	} else if !exists {
		if err := client.MakeBucket(ctx, PhotoBucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("Warning: Failed to create bucket: %v", err)
		} else {
			log.Printf("Created bucket: %s", PhotoBucket)
		}
	}

	MinioClient = client
	log.Println("Connected to MinIO")
}

// PutPhoto stores a photo object, replacing any previous version.
func PutPhoto(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := MinioClient.PutObject(
		ctx,
		PhotoBucket,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

// RemovePhoto deletes a photo object. Missing objects are not an error.
func RemovePhoto(ctx context.Context, objectName string) error {
	return MinioClient.RemoveObject(ctx, PhotoBucket, objectName, minio.RemoveObjectOptions{})
}
