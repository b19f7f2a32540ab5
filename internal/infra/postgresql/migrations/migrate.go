package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/naphat-v/visawatch/internal/repository"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_passports",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.PassportModel{}); err != nil {
					return err
				}
				indexes := []string{
					`CREATE INDEX IF NOT EXISTS idx_passports_expiry_date ON passports (expiry_date)`,
					`CREATE INDEX IF NOT EXISTS idx_passports_line_user_id ON passports (line_user_id) WHERE line_user_id IS NOT NULL`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.PassportModel{})
			},
		},
	})

	return m.Migrate()
}
