// Description: generate CRUD query code for all tables
package main

import (
	"fmt"

	"gearbook/config"
	"gearbook/dao/model"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
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
	g := gen.NewGenerator(gen.Config{
		OutPath: "./dao/query",

		Mode: gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.UseDB(ConnectPostgres())

	g.ApplyBasic(
		model.User{},
		model.Equipment{},
		model.Project{},
		model.ProjectItem{},
	)

	g.Execute()
}
