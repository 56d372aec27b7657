package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/server"
	"jigswap.app/jigswap/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if err := seedCategories(db); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}

	if os.Getenv("APP_ENV") == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := connectRedis()

	srv := server.NewServer(db, redisClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := srv.Run(":" + port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.AdminCategory{},
		&entity.Puzzle{},
		&entity.PuzzleImage{},
		&entity.TradeRequest{},
		&entity.Message{},
		&entity.Review{},
		&entity.Favorite{},
		&entity.Notification{},
	)
}

// connectRedis returns nil when no Redis address is configured. The app
// degrades gracefully: no live notifications, cache or rate limiting.
func connectRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, running without redis")
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

func seedCategories(db *gorm.DB) error {
	starters := []entity.AdminCategory{
		{NameEN: "Landscape", NameNL: "Landschap", Slug: "landscape", Color: "#4caf50", IsActive: true, SortOrder: 0},
		{NameEN: "Art", NameNL: "Kunst", Slug: "art", Color: "#9c27b0", IsActive: true, SortOrder: 1},
		{NameEN: "Animals", NameNL: "Dieren", Slug: "animals", Color: "#ff9800", IsActive: true, SortOrder: 2},
		{NameEN: "Cities", NameNL: "Steden", Slug: "cities", Color: "#2196f3", IsActive: true, SortOrder: 3},
	}

	for _, category := range starters {
		var count int64
		if err := db.Model(&entity.AdminCategory{}).
			Where("slug = ?", category.Slug).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedAdminUser(db *gorm.DB) error {
	email := "admin@jigswap.app"

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("admin user already exists, skipping seed")
		return nil
	}

	password := os.Getenv("ADMIN_SEED_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := entity.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("admin user seeded (%s)", email)
	return nil
}
