package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PhotoArchive copies meal photos to S3 and hands back their public URL.
type PhotoArchive struct {
	client objectPutter
	bucket string
	cdnURL string
}

func NewPhotoArchive(client *s3.Client, bucket, cdnURL string) *PhotoArchive {
	return &PhotoArchive{client: client, bucket: bucket, cdnURL: strings.TrimRight(cdnURL, "/")}
}

// Upload stores a base64 image (bare or "data:<mime>;base64,<data>") under
// meal-photos/<userID>/<name><ext>.
func (a *PhotoArchive) Upload(ctx context.Context, base64Data, userID, name string) (string, error) {
	contentType, data := ParseDataURI(base64Data)

	imageData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	key := fmt.Sprintf("meal-photos/%s/%s%s", userID, name, extensionFor(contentType))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if a.cdnURL == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.bucket, key), nil
	}
	return fmt.Sprintf("%s/%s", a.cdnURL, key), nil
}

// ParseDataURI splits a data URI into content type and payload. Bare
// base64 is assumed to be JPEG, which is what the camera sends.
func ParseDataURI(s string) (contentType, data string) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return "image/jpeg", s
	}
	mediaType := strings.TrimPrefix(meta, "data:")  // "image/png;base64"
	contentType, _, _ = strings.Cut(mediaType, ";") // "image/png"
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return contentType, payload
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(contentType, "/"); ok {
		return "." + sub
	}
	return ""
}
