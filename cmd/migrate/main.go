// Migration script
package main

import (
	"fmt"
	"strings"

	"gearbook/config"
	"gearbook/dao/model"

	"github.com/go-gormigrate/gormigrate/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectPostgres() *gorm.DB {
	cfg := config.GetConfig()
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Postgres.Host, cfg.Postgres.User, cfg.Postgres.Password,
		cfg.Postgres.DBName, cfg.Postgres.Port, cfg.Postgres.SSLMode, cfg.Postgres.TimeZone)
	db, err := gorm.Open(postgres.Open(dsn))
	if err != nil {
		panic(fmt.Errorf("connect to postgres: %w", err))
	}
	return db
}

func main() {
	db := ConnectPostgres()

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// your migrations here
	})

	m.InitSchema(func(tx *gorm.DB) error {
		err := tx.AutoMigrate(
			&model.User{},
			&model.Equipment{},
			&model.Project{},
			&model.ProjectItem{},
		)
		if err != nil {
			return err
		}

		cfg := config.GetConfig()
		if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := model.User{
			Email:        strings.ToLower(cfg.Auth.AdminEmail),
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		}
		return tx.Create(&admin).Error
	})

	if err := m.Migrate(); err != nil {
		panic(fmt.Errorf("could not migrate: %w", err))
	}
}
