package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"boxpool/models/postgres"
)

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM() (*gorm.DB, error) {
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	database := os.Getenv("POSTGRES_DATABASE")
	verbose := os.Getenv("VERBOSE_POSTGRES")

	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		user, password, host, port, database)

	// Open through lib/pq and hand the connection to the GORM driver;
	// the claim arbiter relies on pq error codes for unique violations.
	sqlConn, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Printf("Error connecting to PostgreSQL: %v", err)
		return nil, err
	}

	gormConfig := &gorm.Config{TranslateError: true}
	if verbose == "true" {
		gormConfig.Logger = logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: false,
				Colorful:                  true,
			},
		)
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlConn,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		log.Printf("Error connecting to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	// Get the underlying SQL DB object
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying SQL DB: %v", err)
		return nil, err
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		log.Printf("Error pinging PostgreSQL: %v", err)
		return nil, err
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database
func MigrateDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		postgres.Game{},
		postgres.Player{},
		postgres.Square{})
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Println("PostgreSQL database migrated successfully")

	return nil
}
