//go:build ignore

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hugh/cardhub/internal/auth"
	"github.com/hugh/cardhub/internal/database"
	"github.com/hugh/cardhub/internal/database/models"
	"github.com/hugh/cardhub/pkg/config"
	"github.com/hugh/cardhub/pkg/util"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	seedSuperAdmin(db)
	seedDemoCompany(db)
}

func seedSuperAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "Admin123!"
	}
	if name == "" {
		name = "Platform Admin"
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("Super admin already exists: %s\n", email)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	admin := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		Status:       models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("failed to create super admin: %v", err)
	}

	fmt.Printf("Super admin created: %s\n", email)
}

func seedDemoCompany(db *gorm.DB) {
	var existing models.Company
	if err := db.Where("slug = ?", "acme-corporation").First(&existing).Error; err == nil {
		fmt.Println("Demo company already exists")
		return
	}

	company := models.Company{
		Name:    "Acme Corporation",
		Website: "https://acme.example.com",
		Email:   "hello@acme.example.com",
		Status:  models.StatusActive,
	}
	if err := db.Create(&company).Error; err != nil {
		log.Fatalf("failed to create demo company: %v", err)
	}

	engineering := models.Department{CompanyID: company.ID, Name: "Engineering", Status: models.StatusActive}
	sales := models.Department{CompanyID: company.ID, Name: "Sales", Status: models.StatusActive}
	if err := db.Create(&engineering).Error; err != nil {
		log.Fatalf("failed to create department: %v", err)
	}
	if err := db.Create(&sales).Error; err != nil {
		log.Fatalf("failed to create department: %v", err)
	}

	engineer := models.Designation{CompanyID: company.ID, Title: "Software Engineer", Status: models.StatusActive}
	manager := models.Designation{CompanyID: company.ID, Title: "Account Manager", Status: models.StatusActive}
	if err := db.Create(&engineer).Error; err != nil {
		log.Fatalf("failed to create designation: %v", err)
	}
	if err := db.Create(&manager).Error; err != nil {
		log.Fatalf("failed to create designation: %v", err)
	}

	hash, err := auth.HashPassword("Demo1234!")
	if err != nil {
		log.Fatalf("failed to hash demo password: %v", err)
	}

	users := []struct {
		name        string
		email       string
		role        models.Role
		department  *models.Department
		designation *models.Designation
	}{
		{"Ada Admin", "ada@acme.example.com", models.RoleCompanyAdmin, nil, nil},
		{"Eli Engineer", "eli@acme.example.com", models.RoleEmployee, &engineering, &engineer},
		{"Sam Seller", "sam@acme.example.com", models.RoleEmployee, &sales, &manager},
	}

	for _, u := range users {
		user := models.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			CompanyID:    &company.ID,
			Role:         u.role,
			Status:       models.StatusActive,
		}
		if u.department != nil {
			user.DepartmentID = &u.department.ID
		}
		if u.designation != nil {
			user.DesignationID = &u.designation.ID
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("failed to create demo user %s: %v", u.email, err)
		}

		card := models.BusinessCard{
			UserID:    user.ID,
			CompanyID: company.ID,
			Template:  models.TemplateModern,
			Colors:    models.StringMap{"primary": "#1a73e8", "accent": "#fbbc04"},
			IsDefault: true,
			IsPublic:  true,
		}
		if err := db.Create(&card).Error; err != nil {
			log.Fatalf("failed to create demo card for %s: %v", u.email, err)
		}
		fmt.Printf("Created %s with card /cards/%s\n", u.email, card.Slug)
	}

	fmt.Println("Demo company seeded")
}
