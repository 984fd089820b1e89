package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/utils"
)

// NewLocalStore opens the process-local sqlite file that backs the offline
// schedule-policy fallback. It is a demo/offline affordance, not replication:
// nothing written here propagates to other processes.
func NewLocalStore(logg *logger.Logger) (*gorm.DB, error) {
	path := utils.GetEnv("LOCAL_STORE_PATH", "manutencao_local.db", logg)
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store %q: %w", path, err)
	}
	logg.With("service", "LocalStore").Debug("Local store opened", "path", path)
	return gdb, nil
}
