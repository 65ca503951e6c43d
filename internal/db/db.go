package db

import (
	"log"
	"os"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=inkwell port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Bookmark{},
		&models.Poll{},
		&models.PollVote{},
		&models.Setting{},
		&models.SiteStat{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedSiteStats()
	seedAdmin()
}

// seedSiteStats 保证访客统计单行存在
func seedSiteStats() {
	var count int64
	DB.Model(&models.SiteStat{}).Count(&count)
	if count > 0 {
		return
	}
	if err := DB.Create(&models.SiteStat{ID: 1}).Error; err != nil {
		log.Printf("Failed to seed site stats: %v", err)
	}
}

// seedAdmin 按环境变量创建管理员账号（已存在则跳过）
func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}

	admin := models.User{
		Name:        name,
		Email:       email,
		Password:    hash,
		IsActivated: true, // 管理员免激活
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user %s created", email)
}
