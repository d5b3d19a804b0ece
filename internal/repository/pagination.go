package repository

import "gorm.io/gorm"

// applyPagination 把页码换算为 Limit/Offset 并套到查询上
// pageSize 不为正时视为不分页，非法页码按第一页处理。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
