package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrInvalidDate      = errors.New("Invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("end_date must not be before start_date")
)

// notFound 把 gorm 的未找到错误映射为领域错误
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

func toPagination(q dto.PageQuery) repository.Pagination {
	return repository.Pagination{Page: q.Page, PageSize: q.PageSize}.Normalize()
}

func parseDate(s string) (time.Time, error) {
	t, err := clock.ParseDate(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	t, err := clock.ParseOptionalDate(s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return t, nil
}

// parseDateOr 空串时返回 fallback
func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return parseDate(s)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(clock.DateLayout)
}

func boolValue(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// createAccount 为会员或教练创建无密码的登录账号，邮箱全局唯一
func createAccount(tx *gorm.DB, email, firstName, lastName string) (*model.User, error) {
	users := repository.NewUserRepository(tx)

	exists, err := users.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := users.Create(user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// updateAccount 修改关联账号的姓名与邮箱
func updateAccount(tx *gorm.DB, user *model.User, email, firstName, lastName *string) error {
	users := repository.NewUserRepository(tx)
	fields := map[string]interface{}{}

	if firstName != nil {
		fields["first_name"] = *firstName
		user.FirstName = *firstName
	}
	if lastName != nil {
		fields["last_name"] = *lastName
		user.LastName = *lastName
	}
	if email != nil {
		normalized := normalizeEmail(*email)
		if normalized != user.Email {
			exists, err := users.ExistsByEmailExcept(normalized, user.ID)
			if err != nil {
				return err
			}
			if exists {
				return ErrEmailExists
			}
			fields["email"] = normalized
			user.Email = normalized
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return users.UpdateFields(user.ID, fields)
}
