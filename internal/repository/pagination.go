package repository

import "gorm.io/gorm"

// maxPageSize 单页上限，防止后台导出式查询拖垮数据库
const maxPageSize = 100

// applyPagination 应用分页参数；pageSize <= 0 表示不分页
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// countAndPage 统计总数后应用分页与排序
func countAndPage(query *gorm.DB, page, pageSize int, order string) (*gorm.DB, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	paged := applyPagination(query, page, pageSize)
	if order != "" {
		paged = paged.Order(order)
	}
	return paged, total, nil
}
