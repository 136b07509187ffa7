package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/oss"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrMemberNotFound = errors.New("Member not found")
)

type MemberService struct {
	db             *gorm.DB
	memberRepo     *repository.MemberRepository
	attendanceRepo *repository.AttendanceRepository
	paymentRepo    *repository.PaymentRepository
	pictures       *pictureStore
}

func NewMemberService(
	db *gorm.DB,
	memberRepo *repository.MemberRepository,
	attendanceRepo *repository.AttendanceRepository,
	paymentRepo *repository.PaymentRepository,
	cfg *config.Config,
	uploader oss.Uploader,
) *MemberService {
	return &MemberService{
		db:             db,
		memberRepo:     memberRepo,
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
		pictures:       newPictureStore(uploader, cfg.Upload),
	}
}

// Create 新建会员，同时创建登录账号并分配会员编号
func (s *MemberService) Create(gymOwnerID int64, req *dto.CreateMemberRequest) (*dto.MemberInfo, error) {
	today := clock.Today()

	joinDate, err := parseDateOr(req.JoinDate, today)
	if err != nil {
		return nil, err
	}
	expiry, err := parseDate(req.MembershipExpiry)
	if err != nil {
		return nil, err
	}
	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	membershipType := req.MembershipType
	if membershipType == "" {
		membershipType = model.MembershipBasic
	}

	member := &model.Member{
		GymOwnerID:            gymOwnerID,
		Phone:                 req.Phone,
		DateOfBirth:           dob,
		Gender:                req.Gender,
		Address:               req.Address,
		MembershipType:        membershipType,
		JoinDate:              joinDate,
		MembershipExpiry:      expiry,
		IsActive:              boolValue(req.IsActive, true),
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		HeightCm:              req.HeightCm,
		WeightKg:              req.WeightKg,
		Notes:                 req.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		user, err := createAccount(tx, normalizeEmail(req.Email), req.FirstName, req.LastName)
		if err != nil {
			return err
		}
		member.UserID = user.ID
		member.User = user

		code, err := repository.NextCode(tx, repository.MemberCode, gymOwnerID)
		if err != nil {
			return err
		}
		member.MemberID = code

		return s.memberRepo.WithTx(tx).Create(member)
	})
	if err != nil {
		return nil, err
	}

	logging.Info().Int64("gym_owner_id", gymOwnerID).Str("member_id", member.MemberID).Msg("member created")
	return BuildMemberInfo(member, today), nil
}

// Get 会员详情
func (s *MemberService) Get(gymOwnerID, id int64) (*dto.MemberInfo, error) {
	member, err := s.memberRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return BuildMemberInfo(member, clock.Today()), nil
}

// List 会员分页列表
func (s *MemberService) List(gymOwnerID int64, req *dto.MemberListRequest) ([]*dto.MemberInfo, int64, error) {
	filter := repository.MemberFilter{
		Search:         req.Search,
		MembershipType: req.MembershipType,
		IsActive:       req.IsActive,
	}
	members, total, err := s.memberRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
	if err != nil {
		return nil, 0, err
	}
	return buildMemberInfos(members), total, nil
}

// ListActive 启用中的会员
func (s *MemberService) ListActive(gymOwnerID int64, q dto.PageQuery) ([]*dto.MemberInfo, int64, error) {
	active := true
	members, total, err := s.memberRepo.List(gymOwnerID, repository.MemberFilter{IsActive: &active}, toPagination(q))
	if err != nil {
		return nil, 0, err
	}
	return buildMemberInfos(members), total, nil
}

// ListExpiring days 天内到期的启用会员
func (s *MemberService) ListExpiring(gymOwnerID int64, days int) ([]*dto.MemberInfo, error) {
	today := clock.Today()
	members, err := s.memberRepo.ListExpiring(gymOwnerID, today, clock.AddDays(today, days))
	if err != nil {
		return nil, err
	}
	return buildMemberInfos(members), nil
}

// Update 更新会员资料；会员编号不可修改
func (s *MemberService) Update(gymOwnerID, id int64, req *dto.UpdateMemberRequest) (*dto.MemberInfo, error) {
	member, err := s.memberRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}

	if err := applyMemberUpdate(member, req); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := updateAccount(tx, member.User, req.Email, req.FirstName, req.LastName); err != nil {
			return err
		}
		return s.memberRepo.WithTx(tx).Update(member)
	})
	if err != nil {
		return nil, err
	}

	return BuildMemberInfo(member, clock.Today()), nil
}

func applyMemberUpdate(member *model.Member, req *dto.UpdateMemberRequest) error {
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := parseOptionalDate(*req.DateOfBirth)
		if err != nil {
			return err
		}
		member.DateOfBirth = dob
	}
	if req.Gender != nil {
		member.Gender = *req.Gender
	}
	if req.Address != nil {
		member.Address = *req.Address
	}
	if req.MembershipType != nil {
		member.MembershipType = *req.MembershipType
	}
	if req.JoinDate != nil {
		joinDate, err := parseDate(*req.JoinDate)
		if err != nil {
			return err
		}
		member.JoinDate = joinDate
	}
	if req.MembershipExpiry != nil {
		expiry, err := parseDate(*req.MembershipExpiry)
		if err != nil {
			return err
		}
		member.MembershipExpiry = expiry
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}
	if req.EmergencyContactName != nil {
		member.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		member.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	if req.HeightCm != nil {
		member.HeightCm = req.HeightCm
	}
	if req.WeightKg != nil {
		member.WeightKg = req.WeightKg
	}
	if req.Notes != nil {
		member.Notes = *req.Notes
	}
	return nil
}

// Delete 删除会员及其所有关联记录
func (s *MemberService) Delete(gymOwnerID, id int64) error {
	member, err := s.memberRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return notFound(err, ErrMemberNotFound)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.memberRepo.WithTx(tx).DeleteWithDependents(member)
	})
	if err != nil {
		return err
	}

	logging.Info().Int64("gym_owner_id", gymOwnerID).Str("member_id", member.MemberID).Msg("member deleted")
	return nil
}

// BMI 会员 BMI
func (s *MemberService) BMI(gymOwnerID, id int64) (*dto.BMIResponse, error) {
	member, err := s.memberRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return &dto.BMIResponse{
		MemberID:    member.MemberID,
		FullName:    member.FullName(),
		HeightCm:    member.HeightCm,
		WeightKg:    member.WeightKg,
		BMI:         member.BMI(),
		BMICategory: member.BMICategory(),
	}, nil
}

// Attendance 会员签到历史
func (s *MemberService) Attendance(gymOwnerID, id int64, q dto.PageQuery) ([]*dto.AttendanceInfo, int64, error) {
	if _, err := s.memberRepo.GetByID(gymOwnerID, id); err != nil {
		return nil, 0, notFound(err, ErrMemberNotFound)
	}
	records, total, err := s.attendanceRepo.List(gymOwnerID, repository.AttendanceFilter{MemberID: id}, toPagination(q))
	if err != nil {
		return nil, 0, err
	}
	return buildAttendanceInfos(records), total, nil
}

// Payments 会员支付历史
func (s *MemberService) Payments(gymOwnerID, id int64, q dto.PageQuery) ([]*dto.PaymentInfo, int64, error) {
	if _, err := s.memberRepo.GetByID(gymOwnerID, id); err != nil {
		return nil, 0, notFound(err, ErrMemberNotFound)
	}
	payments, total, err := s.paymentRepo.List(gymOwnerID, repository.PaymentFilter{MemberID: id}, toPagination(q))
	if err != nil {
		return nil, 0, err
	}
	return buildPaymentInfos(payments), total, nil
}

// UploadPicture 更新会员头像
func (s *MemberService) UploadPicture(gymOwnerID, id int64, pic *Picture) (*dto.PictureResponse, error) {
	member, err := s.memberRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}

	fields, err := s.pictures.save("members", member.ID, pic, member.ProfilePictureURL)
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.UpdateFields(member.ID, fields); err != nil {
		return nil, err
	}

	member.ProfilePictureURL = fields["profile_picture_url"].(string)
	member.ProfilePictureBase64 = fields["profile_picture_base64"].(string)
	member.ProfilePictureContentType = fields["profile_picture_content_type"].(string)
	return &dto.PictureResponse{ProfilePictureURL: member.PictureURL()}, nil
}

// BuildMemberInfo 组装会员详情及派生字段
func BuildMemberInfo(member *model.Member, today time.Time) *dto.MemberInfo {
	info := &dto.MemberInfo{
		Member:              member,
		FullName:            member.FullName(),
		ProfilePictureURL:   member.PictureURL(),
		BMI:                 member.BMI(),
		BMICategory:         member.BMICategory(),
		IsMembershipExpired: member.IsExpiredOn(today),
		DaysUntilExpiry:     member.DaysUntilExpiry(today),
	}
	if member.User != nil {
		info.Email = member.User.Email
	}
	return info
}

func buildMemberInfos(members []*model.Member) []*dto.MemberInfo {
	today := clock.Today()
	infos := make([]*dto.MemberInfo, 0, len(members))
	for _, m := range members {
		infos = append(infos, BuildMemberInfo(m, today))
	}
	return infos
}
