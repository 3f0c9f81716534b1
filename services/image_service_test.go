package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/repository"
	"github.com/oneair/oneair-store-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	require.Len(t, form.File["image"], 1)
	return form.File["image"][0]
}

func newImageFixture(t *testing.T) (*S3ImageService, *MockS3Service, repository.ProductRepository) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Product{ID: "p-1", Name: "تكييف شارب", Price: 18500, Stock: 4}).Error)

	storage := NewMockS3Service()
	products := repository.NewProductRepository(db)
	service := NewS3ImageService(storage, products, discardLogger())
	service.now = func() time.Time { return time.Unix(1760400000, 0) }
	return service, storage, products
}

func TestUploadProductImage(t *testing.T) {
	service, storage, products := newImageFixture(t)
	ctx := context.Background()

	product, err := service.UploadProductImage(ctx, "p-1", imageFileHeader(t, "front view.webp", []byte("webp bytes")))
	require.NoError(t, err)
	require.NotNil(t, product.ImageS3Key)
	assert.Equal(t, "products/p-1/1760400000_front_view.webp", *product.ImageS3Key)
	require.NotNil(t, product.ImageURL)
	assert.Contains(t, *product.ImageURL, *product.ImageS3Key)

	content, contentType, ok := storage.Object(*product.ImageS3Key)
	require.True(t, ok)
	assert.Equal(t, "webp bytes", string(content))
	assert.Equal(t, "image/webp", contentType)

	stored, err := products.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, *product.ImageS3Key, *stored.ImageS3Key)
}

func TestUploadProductImage_ReplacesPreviousObject(t *testing.T) {
	service, storage, _ := newImageFixture(t)
	ctx := context.Background()

	first, err := service.UploadProductImage(ctx, "p-1", imageFileHeader(t, "a.png", []byte("one")))
	require.NoError(t, err)

	service.now = func() time.Time { return time.Unix(1760400100, 0) }
	second, err := service.UploadProductImage(ctx, "p-1", imageFileHeader(t, "b.jpg", []byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, *first.ImageS3Key, *second.ImageS3Key)
	assert.Equal(t, 1, storage.Len())
	_, _, ok := storage.Object(*first.ImageS3Key)
	assert.False(t, ok)
}

func TestUploadProductImage_Errors(t *testing.T) {
	service, storage, _ := newImageFixture(t)
	ctx := context.Background()

	_, err := service.UploadProductImage(ctx, "p-1", imageFileHeader(t, "anim.gif", []byte("gif")))
	var uploadErr *utils.FileUploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "INVALID_FILE_FORMAT", uploadErr.Code)

	_, err = service.UploadProductImage(ctx, "missing", imageFileHeader(t, "a.png", []byte("x")))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	storage.FailPut = true
	_, err = service.UploadProductImage(ctx, "p-1", imageFileHeader(t, "a.png", []byte("x")))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to upload image"))
	assert.Zero(t, storage.Len())
}

func TestGetProduct(t *testing.T) {
	service, _, _ := newImageFixture(t)
	ctx := context.Background()

	product, err := service.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Nil(t, product.ImageURL)
	assert.Equal(t, 4, product.Stock)

	_, err = service.UploadProductImage(ctx, "p-1", imageFileHeader(t, "a.png", []byte("x")))
	require.NoError(t, err)

	product, err = service.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, product.ImageURL)
	assert.Contains(t, *product.ImageURL, "mock=true")
}

func TestImageServiceSingleton(t *testing.T) {
	original := GetImageService()
	defer SetImageService(original)

	db := setupTestDB(t)
	service := InitImageService(NewMockS3Service(), repository.NewProductRepository(db), discardLogger())
	assert.Same(t, service, GetImageService())
}
