package repository

import (
	"errors"

	"github.com/tokri-next/internal/models"

	"gorm.io/gorm"
)

// ProductSKURepository 商品规格数据访问接口
type ProductSKURepository interface {
	GetByID(id uint) (*models.ProductSKU, error)
	GetByProductAndCode(productID uint, skuCode string) (*models.ProductSKU, error)
	ListByProductID(productID uint) ([]models.ProductSKU, error)
	Create(sku *models.ProductSKU) error
	Update(sku *models.ProductSKU) error
	Delete(id uint) error
	ReplaceForProduct(productID uint, skus []models.ProductSKU) error
	WithTx(tx *gorm.DB) *GormProductSKURepository
}

// GormProductSKURepository GORM 实现
type GormProductSKURepository struct {
	db *gorm.DB
}

// NewProductSKURepository 创建商品规格仓库
func NewProductSKURepository(db *gorm.DB) *GormProductSKURepository {
	return &GormProductSKURepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductSKURepository) WithTx(tx *gorm.DB) *GormProductSKURepository {
	if tx == nil {
		return r
	}
	return &GormProductSKURepository{db: tx}
}

// GetByID 根据ID获取规格
func (r *GormProductSKURepository) GetByID(id uint) (*models.ProductSKU, error) {
	var sku models.ProductSKU
	if err := r.db.First(&sku, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sku, nil
}

// GetByProductAndCode 按商品与规格编码获取规格
func (r *GormProductSKURepository) GetByProductAndCode(productID uint, skuCode string) (*models.ProductSKU, error) {
	var sku models.ProductSKU
	err := r.db.Where("product_id = ? AND sku_code = ?", productID, skuCode).First(&sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sku, nil
}

// ListByProductID 获取商品的全部规格
func (r *GormProductSKURepository) ListByProductID(productID uint) ([]models.ProductSKU, error) {
	var skus []models.ProductSKU
	err := r.db.Where("product_id = ?", productID).
		Order("sort_order asc, id asc").Find(&skus).Error
	if err != nil {
		return nil, err
	}
	return skus, nil
}

// Create 创建规格
func (r *GormProductSKURepository) Create(sku *models.ProductSKU) error {
	return r.db.Create(sku).Error
}

// Update 更新规格
func (r *GormProductSKURepository) Update(sku *models.ProductSKU) error {
	return r.db.Save(sku).Error
}

// Delete 删除规格
func (r *GormProductSKURepository) Delete(id uint) error {
	return r.db.Delete(&models.ProductSKU{}, id).Error
}

// ReplaceForProduct 整体替换商品的规格列表（后台编辑保存）
func (r *GormProductSKURepository) ReplaceForProduct(productID uint, skus []models.ProductSKU) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSKU{}).Error; err != nil {
			return err
		}
		for i := range skus {
			skus[i].ID = 0
			skus[i].ProductID = productID
		}
		if len(skus) == 0 {
			return nil
		}
		return tx.Create(&skus).Error
	})
}
