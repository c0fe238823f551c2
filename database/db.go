package database

import (
	"fmt"
	"log"

	"github.com/d3vsino/myfittrackbackend/config"
	"github.com/d3vsino/myfittrackbackend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the Postgres connection and runs migrations.
func InitDB(cfg *config.Config) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.User, cfg.Database.Password,
		cfg.Database.DBName, cfg.Database.Port, cfg.Database.SSLMode)

	var err error
	// TranslateError maps driver unique-violation errors to
	// gorm.ErrDuplicatedKey, which the handlers match on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	log.Println("Database connection established")

	log.Println("Running migrations...")
	err = DB.AutoMigrate(
		&models.User{},
		&models.CalorieLog{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	log.Println("Migrations completed")
}

// Close releases the underlying connection pool.
func Close() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Failed to retrieve sql.DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing the database connection: %v", err)
	}
}
