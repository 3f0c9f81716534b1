package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/repository"
	"github.com/oneair/oneair-store-api/utils"
)

// ImageService manages product photos kept in object storage
type ImageService interface {
	// UploadProductImage validates and stores a new photo, replacing the previous one
	UploadProductImage(ctx context.Context, productID string, fileHeader *multipart.FileHeader) (*models.Product, error)

	// GetProduct returns the product with a short-lived image URL
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

// S3ImageService implements ImageService using S3 for storage
type S3ImageService struct {
	storage  S3Interface
	products repository.ProductRepository
	logger   *slog.Logger
	now      func() time.Time
}

var imageServiceInstance ImageService

func NewS3ImageService(storage S3Interface, products repository.ProductRepository, logger *slog.Logger) *S3ImageService {
	return &S3ImageService{
		storage:  storage,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// InitImageService builds the image service and installs it as the global instance
func InitImageService(storage S3Interface, products repository.ProductRepository, logger *slog.Logger) ImageService {
	imageServiceInstance = NewS3ImageService(storage, products, logger)
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

func (s *S3ImageService) UploadProductImage(ctx context.Context, productID string, fileHeader *multipart.FileHeader) (*models.Product, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	contentType, _ := utils.ContentTypeFor(fileHeader.Filename)
	key := utils.ProductImageKey(productID, fileHeader.Filename, s.now())
	if err := s.storage.PutObject(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	if err := s.products.SetImageKey(ctx, productID, &key); err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned image", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, err
	}

	if previous := product.ImageS3Key; previous != nil && *previous != key {
		if err := s.storage.DeleteObject(ctx, *previous); err != nil {
			s.logger.Warn("failed to delete previous product image", slog.String("key", *previous), slog.Any("error", err))
		}
	}

	product.ImageS3Key = &key
	s.attachURL(ctx, product)
	return product, nil
}

func (s *S3ImageService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.attachURL(ctx, product)
	return product, nil
}

func (s *S3ImageService) attachURL(ctx context.Context, product *models.Product) {
	if product.ImageS3Key == nil {
		return
	}
	url, err := s.storage.GetPresignedURL(ctx, *product.ImageS3Key)
	if err != nil {
		s.logger.Warn("failed to generate image URL", slog.String("product_id", product.ID), slog.Any("error", err))
		return
	}
	product.ImageURL = &url
}
