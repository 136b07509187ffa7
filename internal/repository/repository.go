package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Pagination 分页参数，Page 从 1 开始
type Pagination struct {
	Page     int
	PageSize int
}

// Normalize 修正非法的分页参数
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.PageSize
}

// paginate 先计数再按页查询，preloads 只作用于取数据这一步
func paginate(query *gorm.DB, p Pagination, order string, dest interface{}, preloads ...string) (int64, error) {
	p = p.Normalize()

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}

	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	if err := query.Order(order).Offset(p.offset()).Limit(p.PageSize).Find(dest).Error; err != nil {
		return 0, err
	}

	return total, nil
}

// IsDuplicateKey 判断是否违反唯一索引（MySQL 与 SQLite）
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
