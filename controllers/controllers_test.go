package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/oneair/oneair-store-api/config"
	"github.com/oneair/oneair-store-api/middleware"
	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/repository"
	"github.com/oneair/oneair-store-api/services"
	"github.com/oneair/oneair-store-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testutil.MustSetTestEnvironment(t)
	return testutil.NewTestDB(t)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupServices wires the global services against a fresh database and returns it with the mock S3
func setupServices(t *testing.T) (*gorm.DB, *services.MockS3Service) {
	db := setupTestDB(t)
	config.SetDB(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewStore(db)
	settings := repository.NewSettingsRepository(db)
	storage := services.NewMockS3Service()

	services.InitOrderManager(store, settings, services.NewLogNotifier(logger), logger)
	services.InitImageService(storage, store.Products(), logger)
	services.InitSettingsService(settings)
	services.InitAlertHub()

	return db, storage
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing
// It sets up the context exactly as the real EnsureValidToken middleware does
func mockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("validated_claims", &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{Subject: auth0ID},
			CustomClaims:     &middleware.CustomClaims{Role: role},
		})
		c.Next()
	}
}

// adminRouter mounts the admin routes behind a token carrying role
func adminRouter(role string) *gin.Engine {
	router := setupTestRouter()
	admin := router.Group("/admin", mockAuthMiddleware("auth0|"+role, role))

	RegisterAdminRoutes(admin)

	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w, response
}

func errorCode(response map[string]interface{}) string {
	errorData, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errorData["code"].(string)
	return code
}

func strPtr(s string) *string { return &s }

func seedProduct(t *testing.T, db *gorm.DB, id string, stock int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{ID: id, Name: "Product " + id, Price: 100, Stock: stock}).Error)
}

func seedOrder(t *testing.T, db *gorm.DB, id, name, phone string, status models.OrderStatus, items ...models.OrderItem) {
	t.Helper()
	order := models.NewOrder(name, phone, "Alexandria", items)
	order.ID = id
	order.Status = status
	require.NoError(t, repository.NewOrderRepository(db).Create(context.Background(), order))
}

func stockOf(t *testing.T, db *gorm.DB, productID string) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.Stock
}
