package service

import (
	"strings"

	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/repository"
)

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// ListActive 前台分类列表
func (s *CategoryService) ListActive() ([]models.Category, error) {
	categories, _, err := s.categoryRepo.List(repository.CategoryListFilter{OnlyActive: true})
	return categories, err
}

// GetBySlug 按标识获取分类
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// List 后台分类列表
func (s *CategoryService) List(filter repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.categoryRepo.List(filter)
}

// Create 创建分类
func (s *CategoryService) Create(category *models.Category) error {
	existing, err := s.categoryRepo.GetBySlug(category.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrCategorySlugExists
	}
	return s.categoryRepo.Create(category)
}

// Update 更新分类
func (s *CategoryService) Update(category *models.Category) error {
	existing, err := s.categoryRepo.GetByID(category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}
	if category.Slug != existing.Slug {
		conflict, err := s.categoryRepo.GetBySlug(category.Slug)
		if err != nil {
			return err
		}
		if conflict != nil && conflict.ID != category.ID {
			return ErrCategorySlugExists
		}
	}
	return s.categoryRepo.Update(category)
}

// Delete 删除分类（分类下仍有商品时拒绝）
func (s *CategoryService) Delete(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	_, total, err := s.productRepo.List(repository.ProductListFilter{CategoryID: id, PageSize: 1, Page: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return ErrCategoryInUse
	}
	return s.categoryRepo.Delete(id)
}
