package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrTrainerNotFound     = errors.New("Trainer not found")
	ErrAssociationNotFound = errors.New("Association not found")
	ErrAlreadyAssociated   = errors.New("Member is already assigned to this trainer")
)

type TrainerService struct {
	db          *gorm.DB
	trainerRepo *repository.TrainerRepository
	memberRepo  *repository.MemberRepository
	assocRepo   *repository.AssociationRepository
}

func NewTrainerService(
	db *gorm.DB,
	trainerRepo *repository.TrainerRepository,
	memberRepo *repository.MemberRepository,
	assocRepo *repository.AssociationRepository,
) *TrainerService {
	return &TrainerService{
		db:          db,
		trainerRepo: trainerRepo,
		memberRepo:  memberRepo,
		assocRepo:   assocRepo,
	}
}

// Create 新建教练，同时创建登录账号并分配教练编号
func (s *TrainerService) Create(gymOwnerID int64, req *dto.CreateTrainerRequest) (*dto.TrainerInfo, error) {
	joinDate, err := parseDateOr(req.JoinDate, clock.Today())
	if err != nil {
		return nil, err
	}

	specialization := req.Specialization
	if specialization == "" {
		specialization = "general"
	}

	trainer := &model.Trainer{
		GymOwnerID:      gymOwnerID,
		Phone:           req.Phone,
		Specialization:  specialization,
		ExperienceYears: req.ExperienceYears,
		Certification:   req.Certification,
		HourlyRate:      req.HourlyRate,
		IsAvailable:     boolValue(req.IsAvailable, true),
		JoinDate:        joinDate,
	}
	if req.MonthlySalary != nil {
		trainer.MonthlySalary = *req.MonthlySalary
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		user, err := createAccount(tx, normalizeEmail(req.Email), req.FirstName, req.LastName)
		if err != nil {
			return err
		}
		trainer.UserID = user.ID
		trainer.User = user

		code, err := repository.NextCode(tx, repository.TrainerCode, gymOwnerID)
		if err != nil {
			return err
		}
		trainer.TrainerID = code

		return s.trainerRepo.WithTx(tx).Create(trainer)
	})
	if err != nil {
		return nil, err
	}

	logging.Info().Int64("gym_owner_id", gymOwnerID).Str("trainer_id", trainer.TrainerID).Msg("trainer created")
	return buildTrainerInfo(trainer), nil
}

func (s *TrainerService) Get(gymOwnerID, id int64) (*dto.TrainerInfo, error) {
	trainer, err := s.trainerRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrTrainerNotFound)
	}
	return buildTrainerInfo(trainer), nil
}

func (s *TrainerService) List(gymOwnerID int64, req *dto.TrainerListRequest) ([]*dto.TrainerInfo, int64, error) {
	filter := repository.TrainerFilter{
		Search:         req.Search,
		Specialization: req.Specialization,
		IsAvailable:    req.IsAvailable,
	}
	trainers, total, err := s.trainerRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
	if err != nil {
		return nil, 0, err
	}
	return buildTrainerInfos(trainers), total, nil
}

// ListAvailable 可预约的教练
func (s *TrainerService) ListAvailable(gymOwnerID int64, q dto.PageQuery) ([]*dto.TrainerInfo, int64, error) {
	available := true
	trainers, total, err := s.trainerRepo.List(gymOwnerID, repository.TrainerFilter{IsAvailable: &available}, toPagination(q))
	if err != nil {
		return nil, 0, err
	}
	return buildTrainerInfos(trainers), total, nil
}

func (s *TrainerService) Update(gymOwnerID, id int64, req *dto.UpdateTrainerRequest) (*dto.TrainerInfo, error) {
	trainer, err := s.trainerRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrTrainerNotFound)
	}

	if req.Phone != nil {
		trainer.Phone = *req.Phone
	}
	if req.Specialization != nil {
		trainer.Specialization = *req.Specialization
	}
	if req.ExperienceYears != nil {
		trainer.ExperienceYears = *req.ExperienceYears
	}
	if req.Certification != nil {
		trainer.Certification = *req.Certification
	}
	if req.HourlyRate != nil {
		trainer.HourlyRate = *req.HourlyRate
	}
	if req.MonthlySalary != nil {
		trainer.MonthlySalary = *req.MonthlySalary
	}
	if req.IsAvailable != nil {
		trainer.IsAvailable = *req.IsAvailable
	}
	if req.JoinDate != nil {
		joinDate, err := parseDate(*req.JoinDate)
		if err != nil {
			return nil, err
		}
		trainer.JoinDate = joinDate
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := updateAccount(tx, trainer.User, req.Email, req.FirstName, req.LastName); err != nil {
			return err
		}
		return s.trainerRepo.WithTx(tx).Update(trainer)
	})
	if err != nil {
		return nil, err
	}

	return buildTrainerInfo(trainer), nil
}

// Delete 删除教练、绑定关系与登录账号
func (s *TrainerService) Delete(gymOwnerID, id int64) error {
	trainer, err := s.trainerRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return notFound(err, ErrTrainerNotFound)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.assocRepo.WithTx(tx).DeleteByTrainer(gymOwnerID, trainer.ID); err != nil {
			return err
		}
		if err := s.trainerRepo.WithTx(tx).Delete(gymOwnerID, trainer.ID); err != nil {
			return err
		}
		return repository.NewUserRepository(tx).Delete(trainer.UserID)
	})
}

// Members 教练当前带的会员
func (s *TrainerService) Members(gymOwnerID, trainerID int64) ([]*dto.MemberInfo, error) {
	if _, err := s.trainerRepo.GetByID(gymOwnerID, trainerID); err != nil {
		return nil, notFound(err, ErrTrainerNotFound)
	}
	members, err := s.assocRepo.ListMembersOfTrainer(gymOwnerID, trainerID)
	if err != nil {
		return nil, err
	}
	return buildMemberInfos(members), nil
}

// Associate 绑定会员；已停用的绑定会被重新启用
func (s *TrainerService) Associate(gymOwnerID, trainerID int64, req *dto.AssociateRequest) (*dto.AssociationInfo, error) {
	trainer, err := s.trainerRepo.GetByID(gymOwnerID, trainerID)
	if err != nil {
		return nil, notFound(err, ErrTrainerNotFound)
	}
	member, err := s.memberRepo.GetByID(gymOwnerID, req.MemberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}

	today := clock.Today()
	assoc, err := s.assocRepo.Get(gymOwnerID, trainer.ID, member.ID)
	switch {
	case err == nil:
		if assoc.IsActive {
			return nil, ErrAlreadyAssociated
		}
		fields := map[string]interface{}{
			"is_active":     true,
			"assigned_date": today,
			"notes":         req.Notes,
		}
		if err := s.assocRepo.UpdateFields(assoc.ID, fields); err != nil {
			return nil, err
		}
		assoc.IsActive = true
		assoc.AssignedDate = today
		assoc.Notes = req.Notes
	case errors.Is(err, gorm.ErrRecordNotFound):
		assoc = &model.TrainerMemberAssociation{
			GymOwnerID:   gymOwnerID,
			TrainerID:    trainer.ID,
			MemberID:     member.ID,
			AssignedDate: today,
			IsActive:     true,
			Notes:        req.Notes,
		}
		if err := s.assocRepo.Create(assoc); err != nil {
			if repository.IsDuplicateKey(err) {
				return nil, ErrAlreadyAssociated
			}
			return nil, err
		}
	default:
		return nil, err
	}

	assoc.Trainer = trainer
	assoc.Member = member
	return buildAssociationInfo(assoc), nil
}

// Unassociate 停用绑定，保留历史
func (s *TrainerService) Unassociate(gymOwnerID, trainerID int64, req *dto.UnassociateRequest) error {
	if _, err := s.trainerRepo.GetByID(gymOwnerID, trainerID); err != nil {
		return notFound(err, ErrTrainerNotFound)
	}

	assoc, err := s.assocRepo.Get(gymOwnerID, trainerID, req.MemberID)
	if err != nil {
		return notFound(err, ErrAssociationNotFound)
	}
	if !assoc.IsActive {
		return ErrAssociationNotFound
	}
	return s.assocRepo.UpdateFields(assoc.ID, map[string]interface{}{"is_active": false})
}

// ListAssociations 绑定列表
func (s *TrainerService) ListAssociations(gymOwnerID int64, req *dto.AssociationListRequest) ([]*dto.AssociationInfo, int64, error) {
	filter := repository.AssociationFilter{
		TrainerID: req.TrainerID,
		MemberID:  req.MemberID,
		IsActive:  req.IsActive,
	}
	assocs, total, err := s.assocRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.AssociationInfo, 0, len(assocs))
	for _, a := range assocs {
		infos = append(infos, buildAssociationInfo(a))
	}
	return infos, total, nil
}

func buildTrainerInfo(trainer *model.Trainer) *dto.TrainerInfo {
	info := &dto.TrainerInfo{Trainer: trainer, FullName: trainer.TrainerID}
	if trainer.User != nil {
		info.FullName = trainer.User.FullName()
		info.Email = trainer.User.Email
	}
	return info
}

func buildTrainerInfos(trainers []*model.Trainer) []*dto.TrainerInfo {
	infos := make([]*dto.TrainerInfo, 0, len(trainers))
	for _, t := range trainers {
		infos = append(infos, buildTrainerInfo(t))
	}
	return infos
}

func buildAssociationInfo(a *model.TrainerMemberAssociation) *dto.AssociationInfo {
	info := &dto.AssociationInfo{
		ID:           a.ID,
		TrainerID:    a.TrainerID,
		MemberID:     a.MemberID,
		AssignedDate: formatDate(&a.AssignedDate),
		IsActive:     a.IsActive,
		Notes:        a.Notes,
	}
	if a.Trainer != nil {
		info.TrainerCode = a.Trainer.TrainerID
		info.TrainerName = buildTrainerInfo(a.Trainer).FullName
	}
	if a.Member != nil {
		info.MemberCode = a.Member.MemberID
		info.MemberName = a.Member.FullName()
	}
	return info
}
