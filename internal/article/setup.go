package article

import (
	"fmt"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
)

// PrimeDB 负责初始化article模块的数据库部分
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Article{}); err != nil {
		return fmt.Errorf("无法迁移article表: %w", err)
	}
	fmt.Println("Article数据库表迁移成功。")
	return nil
}
