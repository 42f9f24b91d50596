package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectRemote opens a connection to the remote PostgreSQL database and
// returns the handle. The caller owns the handle and passes it down
// explicitly; there is no package-level connection.
func ConnectRemote(c *Config) (*gorm.DB, error) {
	if !c.IsRemoteConfigured() {
		return nil, fmt.Errorf("remote database is not configured")
	}

	db, err := gorm.Open(postgres.Open(c.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Remote database connection established successfully")
	return db, nil
}
