package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	BrandID      uint
	Search       string
	OnlyActive   bool
	OnlyFeatured bool
	WithCategory bool
	WithSKUs     bool
}

// CategoryListFilter 查询分类列表的过滤条件
type CategoryListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page     int
	PageSize int
	Code     string
	Type     string
	IsActive *bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	Status        string
	OrderNo       string
	CustomerPhone string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// CouponUsageListFilter 查询优惠券使用记录的过滤条件
type CouponUsageListFilter struct {
	Page          int
	PageSize      int
	CouponID      uint
	CustomerPhone string
}
