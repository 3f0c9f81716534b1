package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/repository"
)

// SettingsUpdate is the editable part of the store settings; nil fields are left untouched
type SettingsUpdate struct {
	StoreName                 *string `json:"store_name"`
	StoreNameEn               *string `json:"store_name_en"`
	StoreURL                  *string `json:"store_url"`
	StoreEmail                *string `json:"store_email"`
	StorePhone                *string `json:"store_phone"`
	SenderName                *string `json:"sender_name"`
	NotificationEmail         *string `json:"notification_email"`
	EmailNotificationsEnabled *bool   `json:"email_notifications_enabled"`
}

// SettingsService reads and updates the single store settings row
type SettingsService struct {
	repo repository.SettingsRepository
}

var settingsServiceInstance *SettingsService

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// InitSettingsService builds the settings service and installs it as the global instance
func InitSettingsService(repo repository.SettingsRepository) *SettingsService {
	settingsServiceInstance = NewSettingsService(repo)
	return settingsServiceInstance
}

// GetSettingsService returns the initialized settings service
func GetSettingsService() *SettingsService {
	return settingsServiceInstance
}

// SetSettingsService sets the settings service instance (primarily for testing)
func SetSettingsService(s *SettingsService) {
	settingsServiceInstance = s
}

func (s *SettingsService) Get(ctx context.Context) (*models.StoreSettings, error) {
	return s.repo.Get(ctx)
}

// Update applies u over the stored settings, creating the row on first use
func (s *SettingsService) Update(ctx context.Context, u SettingsUpdate) (*models.StoreSettings, error) {
	if u.StoreEmail != nil && *u.StoreEmail != "" && !IsValidEmail(*u.StoreEmail) {
		return nil, fmt.Errorf("%w: store_email is not a valid email address", repository.ErrValidation)
	}
	if u.NotificationEmail != nil && *u.NotificationEmail != "" && !IsValidEmail(*u.NotificationEmail) {
		return nil, fmt.Errorf("%w: notification_email is not a valid email address", repository.ErrValidation)
	}
	if u.StoreURL != nil && *u.StoreURL != "" {
		parsed, err := url.Parse(*u.StoreURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return nil, fmt.Errorf("%w: store_url must be an http(s) URL", repository.ErrValidation)
		}
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		settings = &models.StoreSettings{}
	}

	apply(&settings.StoreName, u.StoreName)
	apply(&settings.StoreNameEn, u.StoreNameEn)
	apply(&settings.StoreEmail, u.StoreEmail)
	apply(&settings.StorePhone, u.StorePhone)
	apply(&settings.SenderName, u.SenderName)
	apply(&settings.NotificationEmail, u.NotificationEmail)
	if u.StoreURL != nil {
		settings.StoreURL = strings.TrimRight(*u.StoreURL, "/")
	}
	if u.EmailNotificationsEnabled != nil {
		settings.EmailNotificationsEnabled = *u.EmailNotificationsEnabled
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func apply(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
