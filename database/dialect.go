package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/kbukum/container/errors"
)

// Dialector returns the GORM dialector for cfg.Driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return sqlite.Open(cfg.DSN), nil
	case DriverMySQL:
		return mysql.New(mysql.Config{
			DSN:                       cfg.DSN,
			DefaultStringSize:         256,
		}), nil
	}
	return nil, apperrors.InvalidArgument("driver", fmt.Sprintf("unsupported driver %q", cfg.Driver))
}
