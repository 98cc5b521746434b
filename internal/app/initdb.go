package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/vendormart/vendormart/config"
	"github.com/vendormart/vendormart/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	loglevel := logger.Silent
	if cfg.Debug {
		loglevel = logger.Info
	}
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(loglevel)}

	var db *gorm.DB
	var err error
	switch cfg.Type {
	case "sqlite":
		dbfile := filepath.Join(workdir, "data", "vendormart.db")
		db, err = gorm.Open(sqlite.Open(dbfile), gormConfig)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
			cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port, time.Local.String())
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	}
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}

// checkDemoCatalog seeds a minimal catalog on an empty debug database
// so the cart flow is exercisable out of the box.
func (a *Application) checkDemoCatalog() {
	if !a.appConfig.System.Debug {
		return
	}

	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}

	demoProducts := []domain.Product{
		{
			ID:                 a.NextID(),
			ProductName:        "Basmati Rice",
			ProductDescription: "Long grain basmati rice",
			Slug:               "basmati-rice",
			Status:             "active",
		},
		{
			ID:                 a.NextID(),
			ProductName:        "Sunflower Oil",
			ProductDescription: "Refined sunflower oil",
			Slug:               "sunflower-oil",
			Status:             "active",
		},
	}
	demoSizes := [][]domain.PackSize{
		{
			{Size: "1kg", PriceForWholesaler: 80, PriceForRetailer: 95},
			{Size: "5kg", PriceForWholesaler: 370, PriceForRetailer: 440},
		},
		{
			{Size: "1L", PriceForWholesaler: 120, PriceForRetailer: 140},
		},
	}

	for i, p := range demoProducts {
		for _, s := range demoSizes[i] {
			s.ID = a.NextID()
			s.ProductID = p.ID
			p.AvailablePackSizes = append(p.AvailablePackSizes, s)
		}
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to seed demo product", zap.String("name", p.ProductName), zap.Error(err))
		} else {
			zap.L().Info("seeded demo product", zap.String("name", p.ProductName))
		}
	}
}
