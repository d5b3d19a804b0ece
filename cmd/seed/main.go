package main

import (
	"time"

	"github.com/tokri-next/internal/config"
	"github.com/tokri-next/internal/constants"
	"github.com/tokri-next/internal/logger"
	"github.com/tokri-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "sarees", Name: "Sarees", SortOrder: 1, IsActive: true},
		{Slug: "panjabi", Name: "Panjabi", SortOrder: 2, IsActive: true},
		{Slug: "electronics", Name: "Electronics", SortOrder: 3, IsActive: true},
		{Slug: "home-kitchen", Name: "Home & Kitchen", SortOrder: 4, IsActive: true},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"sarees", "panjabi", "electronics", "home-kitchen"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加商品
	products := []models.Product{
		{
			CategoryID:   categoryIDs["sarees"],
			Slug:         "jamdani-saree-classic",
			Name:         "Jamdani Saree Classic",
			Description:  "Handwoven Dhakai Jamdani saree with traditional motifs.",
			BasePriceRaw: "4500",
			PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(4500)),
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1610030469983-98e550d6193c?w=800",
			},
			Tags:       models.StringArray{"Jamdani", "Handloom", "Traditional"},
			IsFeatured: true,
			IsActive:   true,
			SortOrder:  1,
		},
		{
			CategoryID:   categoryIDs["panjabi"],
			Slug:         "eid-panjabi-premium",
			Name:         "Eid Panjabi Premium",
			Description:  "Premium cotton panjabi, available in multiple sizes and colors.",
			BasePriceRaw: "1800",
			PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(1800)),
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1617137968427-85924c800a22?w=800",
			},
			Tags:       models.StringArray{"Panjabi", "Eid", "Cotton"},
			IsFeatured: true,
			IsActive:   true,
			SortOrder:  2,
			SKUs: []models.ProductSKU{
				{
					SKUCode:    "EPP-M-WHT",
					SpecValues: models.StringMap{"size": "M", "color": "White"},
					FinalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(1800)),
					IsActive:   true,
					SortOrder:  1,
				},
				{
					SKUCode:    "EPP-L-WHT",
					SpecValues: models.StringMap{"size": "L", "color": "White"},
					FinalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(1900)),
					IsActive:   true,
					SortOrder:  2,
				},
				{
					SKUCode:          "EPP-L-NVY",
					SpecValues:       models.StringMap{"size": "L", "color": "Navy"},
					FinalPrice:       models.NewMoneyFromDecimal(decimal.NewFromInt(1950)),
					DiscountedAmount: models.MoneyPtr(models.NewMoneyFromDecimal(decimal.NewFromInt(1750))),
					IsActive:         true,
					SortOrder:        3,
				},
			},
		},
		{
			CategoryID:   categoryIDs["electronics"],
			Slug:         "tws-earbuds-pro",
			Name:         "TWS Earbuds Pro",
			Description:  "True wireless earbuds with noise cancellation and 24h battery.",
			BasePriceRaw: "2500",
			PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(2500)),
			DiscountedAmount: models.MoneyPtr(
				models.NewMoneyFromDecimal(decimal.NewFromInt(2100)),
			),
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			},
			Tags:           models.StringArray{"Audio", "Wireless"},
			IsFreeDelivery: true,
			IsActive:       true,
			SortOrder:      3,
		},
		{
			CategoryID:   categoryIDs["home-kitchen"],
			Slug:         "clay-dinner-set",
			Name:         "Clay Dinner Set",
			Description:  "Handmade terracotta dinner set. Price to be announced.",
			BasePriceRaw: constants.PriceMarkerTBA,
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1578749556568-bc2c40e68b61?w=800",
			},
			Tags:      models.StringArray{"Terracotta", "Handmade"},
			IsActive:  true,
			SortOrder: 4,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 添加优惠券
	now := time.Now()
	monthLater := now.AddDate(0, 1, 0)
	coupons := []models.Coupon{
		{
			Code:         "WELCOME10",
			Type:         constants.CouponTypePercent,
			Value:        models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MinAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
			UsageLimit:   100,
			PerUserLimit: 1,
			StartsAt:     &now,
			EndsAt:       &monthLater,
			IsActive:     true,
			Description:  "10% off for orders above 1000 BDT",
		},
		{
			Code:        "TAKA200",
			Type:        constants.CouponTypeFixed,
			Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(200)),
			MinAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(2000)),
			UsageLimit:  50,
			StartsAt:    &now,
			EndsAt:      &monthLater,
			IsActive:    true,
			Description: "Flat 200 BDT off for orders above 2000 BDT",
		},
		{
			Code:        "FREESHIP",
			Type:        constants.CouponTypeFreeDelivery,
			MinAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(1500)),
			UsageLimit:  200,
			StartsAt:    &now,
			EndsAt:      &monthLater,
			IsActive:    true,
			Description: "Free delivery for orders above 1500 BDT",
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	// 初始化默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	stdLog.Printf("Seed finished")
}
