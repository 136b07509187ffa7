package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/gym_go_server/internal/model"
)

// MemberFilter 会员列表筛选条件
type MemberFilter struct {
	Search         string // 姓名、邮箱或会员编号
	MembershipType string
	IsActive       *bool
}

// MemberStats 仪表盘用的会员计数
type MemberStats struct {
	Total    int64
	Active   int64
	Expired  int64
	Expiring int64
}

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) WithTx(tx *gorm.DB) *MemberRepository {
	return &MemberRepository{db: tx}
}

func (r *MemberRepository) Create(member *model.Member) error {
	return r.db.Omit(clause.Associations).Create(member).Error
}

func (r *MemberRepository) GetByID(gymOwnerID, id int64) (*model.Member, error) {
	var member model.Member
	err := r.db.Preload("User").Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByIDForUpdate 在事务内加行锁读取
func (r *MemberRepository) GetByIDForUpdate(gymOwnerID, id int64) (*model.Member, error) {
	var member model.Member
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) GetByCode(gymOwnerID int64, code string) (*model.Member, error) {
	var member model.Member
	err := r.db.Preload("User").Where("member_id = ? AND gym_owner_id = ?", code, gymOwnerID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) GetByEmail(gymOwnerID int64, email string) (*model.Member, error) {
	var member model.Member
	err := r.db.Preload("User").
		Joins("JOIN users ON users.id = members.user_id").
		Where("members.gym_owner_id = ? AND users.email = ?", gymOwnerID, email).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update 保存资料；会员编号与所属健身房不可修改
func (r *MemberRepository) Update(member *model.Member) error {
	return r.db.Omit(clause.Associations, "member_id", "gym_owner_id", "created_at").Save(member).Error
}

func (r *MemberRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Member{}).Where("id = ?", id).Updates(fields).Error
}

func (r *MemberRepository) Delete(gymOwnerID, id int64) error {
	return r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).Delete(&model.Member{}).Error
}

// DeleteWithDependents 删除会员及其签到、支付、订阅、教练绑定、通知和登录账号；调用方负责事务
func (r *MemberRepository) DeleteWithDependents(member *model.Member) error {
	dependents := []interface{}{
		&model.Attendance{},
		&model.MembershipPayment{},
		&model.MemberSubscription{},
		&model.TrainerMemberAssociation{},
	}
	for _, dep := range dependents {
		if err := r.db.Where("member_id = ?", member.ID).Delete(dep).Error; err != nil {
			return err
		}
	}
	if err := NewNotificationRepository(r.db).DeleteByMember(member.ID); err != nil {
		return err
	}
	if err := r.Delete(member.GymOwnerID, member.ID); err != nil {
		return err
	}
	return r.db.Delete(&model.User{}, member.UserID).Error
}

// List 会员分页列表
func (r *MemberRepository) List(gymOwnerID int64, filter MemberFilter, p Pagination) ([]*model.Member, int64, error) {
	var members []*model.Member

	query := r.db.Model(&model.Member{}).Where("members.gym_owner_id = ?", gymOwnerID)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Joins("JOIN users ON users.id = members.user_id").
			Where("members.member_id LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ? OR users.email LIKE ?",
				like, like, like, like)
	}
	if filter.MembershipType != "" {
		query = query.Where("members.membership_type = ?", filter.MembershipType)
	}
	if filter.IsActive != nil {
		query = query.Where("members.is_active = ?", *filter.IsActive)
	}

	total, err := paginate(query, p, "members.created_at DESC, members.id DESC", &members, "User")
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// ListExpiring 在 [from, to] 之间到期的启用会员
func (r *MemberRepository) ListExpiring(gymOwnerID int64, from, to time.Time) ([]*model.Member, error) {
	var members []*model.Member
	err := r.db.Preload("User").
		Where("gym_owner_id = ? AND is_active = ? AND membership_expiry BETWEEN ? AND ?", gymOwnerID, true, from, to).
		Order("membership_expiry ASC").
		Find(&members).Error
	return members, err
}

// ListExpiredActive 所有租户中已过期但仍为启用状态的会员
func (r *MemberRepository) ListExpiredActive(today time.Time) ([]*model.Member, error) {
	var members []*model.Member
	err := r.db.Preload("User").
		Where("is_active = ? AND membership_expiry < ?", true, today).
		Order("gym_owner_id ASC, membership_expiry ASC").
		Find(&members).Error
	return members, err
}

// DeactivateByIDs 批量停用
func (r *MemberRepository) DeactivateByIDs(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&model.Member{}).Where("id IN ?", ids).Update("is_active", false)
	return result.RowsAffected, result.Error
}

// Stats 会员总数、启用、过期与 days 天内到期的数量
func (r *MemberRepository) Stats(gymOwnerID int64, today time.Time, days int) (*MemberStats, error) {
	stats := &MemberStats{}
	base := func() *gorm.DB {
		return r.db.Model(&model.Member{}).Where("gym_owner_id = ?", gymOwnerID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := base().Where("membership_expiry < ?", today).Count(&stats.Expired).Error; err != nil {
		return nil, err
	}
	until := today.AddDate(0, 0, days)
	if err := base().Where("is_active = ? AND membership_expiry BETWEEN ? AND ?", true, today, until).
		Count(&stats.Expiring).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
