package schema

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrations are appended here as the schema evolves; a fresh database is
// initialized in one step via InitSchema.
func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202506_client_linkedin_profile",
			Migrate: func(txn *gorm.DB) error {
				type Client struct {
					LinkedinProfile string `gorm:"size:500"`
				}
				if txn.Migrator().HasColumn(&Client{}, "LinkedinProfile") {
					return nil
				}
				return txn.Migrator().AddColumn(&Client{}, "LinkedinProfile")
			},
			Rollback: func(txn *gorm.DB) error {
				type Client struct {
					LinkedinProfile string `gorm:"size:500"`
				}
				return txn.Migrator().DropColumn(&Client{}, "LinkedinProfile")
			},
		},
	}
}

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())

	m.InitSchema(func(txn *gorm.DB) error {
		return txn.AutoMigrate(&User{}, &Client{}, &ContentItem{})
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("error migrating db schema: %w", err)
	}
	return nil
}
