package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/cardhub/internal/auth"
	"github.com/hugh/cardhub/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing. Each call
// gets its own named database so parallel tests stay isolated, and foreign
// keys are switched on so cascade behavior matches production.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.Company{},
		&models.Department{},
		&models.Designation{},
		&models.User{},
		&models.BusinessCard{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestCompany creates a test company with a unique name
func CreateTestCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()

	suffix := uuid.New().String()[:8]
	company := &models.Company{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:   "Test Company " + suffix,
		Slug:   "test-company-" + suffix,
		Email:  "hello-" + suffix + "@example.com",
		Status: models.StatusActive,
	}

	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}

	return company
}

// CreateTestUser creates a test user in the given company with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, company *models.Company, role models.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		Status:       models.StatusActive,
	}
	if company != nil {
		user.CompanyID = &company.ID
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	user.Company = company
	return user
}

// CreateTestDepartment creates a test department for the given company
func CreateTestDepartment(t *testing.T, db *gorm.DB, companyID uuid.UUID, name string) *models.Department {
	t.Helper()

	department := &models.Department{
		Base: models.Base{
			ID: uuid.New(),
		},
		CompanyID: companyID,
		Name:      name,
		Status:    models.StatusActive,
	}

	if err := db.Create(department).Error; err != nil {
		t.Fatalf("failed to create test department: %v", err)
	}

	return department
}

// CreateTestDesignation creates a test designation for the given company
func CreateTestDesignation(t *testing.T, db *gorm.DB, companyID uuid.UUID, title string) *models.Designation {
	t.Helper()

	designation := &models.Designation{
		Base: models.Base{
			ID: uuid.New(),
		},
		CompanyID: companyID,
		Title:     title,
		Status:    models.StatusActive,
	}

	if err := db.Create(designation).Error; err != nil {
		t.Fatalf("failed to create test designation: %v", err)
	}

	return designation
}

// CreateTestCard creates a business card for the given user. The slug is
// generated by the model hook.
func CreateTestCard(t *testing.T, db *gorm.DB, user *models.User) *models.BusinessCard {
	t.Helper()

	if user.CompanyID == nil {
		t.Fatal("test card owner must belong to a company")
	}

	card := &models.BusinessCard{
		UserID:    user.ID,
		CompanyID: *user.CompanyID,
		Template:  models.TemplateDefault,
		IsDefault: true,
		IsPublic:  true,
	}

	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}

	return card
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	companyID := uuid.Nil
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	token, err := jwtService.GenerateToken(user.ID, companyID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Company    *models.Company
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, company, company
// admin and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	company := CreateTestCompany(t, db)
	user := CreateTestUser(t, db, company, models.RoleCompanyAdmin)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Company:    company,
		User:       user,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
