package utils

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestPhotoArchive_Upload(t *testing.T) {
	put := &fakePutter{}
	a := &PhotoArchive{client: put, bucket: "photos", cdnURL: "https://cdn.example.com"}

	url, err := a.Upload(context.Background(), "data:image/png;base64,QUJD", "u1", "m1")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/meal-photos/u1/m1.png", url)
	assert.Equal(t, "photos", aws.ToString(put.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(put.in.ContentType))
	assert.Equal(t, []byte("ABC"), put.body)
}

func TestPhotoArchive_UploadBareBase64(t *testing.T) {
	put := &fakePutter{}
	a := &PhotoArchive{client: put, bucket: "photos"}

	url, err := a.Upload(context.Background(), "QUJD", "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, "https://photos.s3.amazonaws.com/meal-photos/u1/m1.jpg", url)
}

func TestPhotoArchive_Errors(t *testing.T) {
	a := &PhotoArchive{client: &fakePutter{}, bucket: "photos"}
	_, err := a.Upload(context.Background(), "data:image/png;base64,!!!", "u1", "m1")
	assert.Error(t, err)

	a = &PhotoArchive{client: &fakePutter{err: errors.New("denied")}, bucket: "photos"}
	_, err = a.Upload(context.Background(), "QUJD", "u1", "m1")
	assert.ErrorContains(t, err, "denied")
}
