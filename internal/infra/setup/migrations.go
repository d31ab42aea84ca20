package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// MigrateDB runs all schema migrations against the provided GORM DB instance.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.User{},
		&domain.Channel{},
		&domain.ChannelMember{},
		&domain.Message{},
		&domain.Attachment{},
		&domain.Reaction{},
		&domain.ReadWatermark{},
	)
	if err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
