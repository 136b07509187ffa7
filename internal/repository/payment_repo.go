package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/gym_go_server/internal/model"
)

// PaymentFilter 支付记录筛选条件；日期区间为闭区间
type PaymentFilter struct {
	MemberID      int64
	Status        string
	PaymentMethod string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// MethodTotal 按支付方式汇总的收入
type MethodTotal struct {
	PaymentMethod string  `json:"payment_method"`
	Total         float64 `json:"total"`
	Count         int64   `json:"count"`
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(payment *model.MembershipPayment) error {
	return r.db.Omit(clause.Associations).Create(payment).Error
}

func (r *PaymentRepository) GetByID(gymOwnerID, id int64) (*model.MembershipPayment, error) {
	var payment model.MembershipPayment
	err := r.db.Preload("Member.User").Preload("SubscriptionPlan").
		Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Update(payment *model.MembershipPayment) error {
	return r.db.Omit(clause.Associations, "payment_id", "gym_owner_id", "created_at").Save(payment).Error
}

func (r *PaymentRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.MembershipPayment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PaymentRepository) Delete(gymOwnerID, id int64) error {
	return r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).Delete(&model.MembershipPayment{}).Error
}

func (r *PaymentRepository) List(gymOwnerID int64, filter PaymentFilter, p Pagination) ([]*model.MembershipPayment, int64, error) {
	var payments []*model.MembershipPayment

	query := r.db.Model(&model.MembershipPayment{}).Where("gym_owner_id = ?", gymOwnerID)
	if filter.MemberID > 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.DateFrom != nil {
		query = query.Where("payment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payment_date < ?", filter.DateTo.AddDate(0, 0, 1))
	}

	total, err := paginate(query, p, "payment_date DESC, id DESC", &payments, "Member.User", "SubscriptionPlan")
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// SumCompleted 已完成支付在 [from, to) 内的总额；from、to 为零值时不限制
func (r *PaymentRepository) SumCompleted(gymOwnerID int64, from, to time.Time) (float64, error) {
	query := r.db.Model(&model.MembershipPayment{}).
		Where("gym_owner_id = ? AND status = ?", gymOwnerID, model.PaymentStatusCompleted)
	if !from.IsZero() {
		query = query.Where("payment_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("payment_date < ?", to)
	}

	var total float64
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

// SumCompletedByMethod 已完成支付按方式汇总
func (r *PaymentRepository) SumCompletedByMethod(gymOwnerID int64) ([]MethodTotal, error) {
	var rows []MethodTotal
	err := r.db.Model(&model.MembershipPayment{}).
		Select("payment_method, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("gym_owner_id = ? AND status = ?", gymOwnerID, model.PaymentStatusCompleted).
		Group("payment_method").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

// ListCompletedSince 已完成支付（只取日期与金额），用于按月汇总
func (r *PaymentRepository) ListCompletedSince(gymOwnerID int64, from time.Time) ([]*model.MembershipPayment, error) {
	var payments []*model.MembershipPayment
	err := r.db.Select("id", "payment_date", "amount").
		Where("gym_owner_id = ? AND status = ? AND payment_date >= ?", gymOwnerID, model.PaymentStatusCompleted, from).
		Find(&payments).Error
	return payments, err
}

// ListUnapplied 已完成但会员期尚未延长的支付（供补偿任务扫描）
func (r *PaymentRepository) ListUnapplied(limit int) ([]*model.MembershipPayment, error) {
	var payments []*model.MembershipPayment
	err := r.db.Where("status = ? AND membership_months > 0 AND membership_applied = ?", model.PaymentStatusCompleted, false).
		Order("id ASC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}
