package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the global database handle shared by the services.
var DB *gorm.DB

// Init opens the database connection and runs auto-migration.
// An empty databasePath falls back to showandtell.db.
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "showandtell.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	// TranslateError lets callers match unique-constraint violations with
	// errors.Is(err, gorm.ErrDuplicatedKey) instead of driver-specific codes.
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	if err = DB.AutoMigrate(
		&User{},
		&Post{},
		&Comment{},
		&HistoryEntry{},
		&SaveEntry{},
	); err != nil {
		return err
	}

	// Accounts created before the reset-code column existed get the
	// no-pending-code sentinel.
	if err := DB.Model(&User{}).
		Where("reset_code = '' OR reset_code IS NULL").
		Update("reset_code", NoResetCode).Error; err != nil {
		return err
	}

	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
