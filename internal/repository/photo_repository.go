package repository

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPhotoType = "image/jpeg"

// PhotoRepository keeps listing photos in GridFS.
type PhotoRepository struct {
	DB *mongo.Database
}

func NewPhotoRepository(client *mongo.Client, dbName string) *PhotoRepository {
	return &PhotoRepository{DB: client.Database(dbName)}
}

// UploadPhoto stores the file and returns its GridFS id as hex.
func (r *PhotoRepository) UploadPhoto(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto: %w", err)
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	stream, err := bucket.OpenUploadStream(filename, opts)
	if err != nil {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto: %w", err)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = stream.SetWriteDeadline(dl)
	}

	if _, err := io.Copy(stream, file); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("PhotoRepository.UploadPhoto: %w", err)
	}
	// the file document is written on Close
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto: %w", err)
	}

	return stream.FileID.(primitive.ObjectID).Hex(), nil
}

// DownloadPhoto returns the photo bytes and their content type.
func (r *PhotoRepository) DownloadPhoto(ctx context.Context, photoID string) ([]byte, string, error) {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.DownloadPhoto: %w", err)
	}

	objID, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.DownloadPhoto: %w", err)
	}

	stream, err := bucket.OpenDownloadStream(objID)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.DownloadPhoto: %w", err)
	}
	defer stream.Close()
	if dl, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(dl)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.DownloadPhoto: %w", err)
	}

	contentType := defaultPhotoType
	if f := stream.GetFile(); f != nil && f.Metadata != nil {
		if ct, ok := f.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			contentType = ct
		}
	}
	return data, contentType, nil
}
