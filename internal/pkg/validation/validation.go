// Package validation 注册领域枚举的 binding 标签，并把校验错误转换成可读消息
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/qs3c/gym_go_server/internal/model"
)

// 标签名到允许取值
var enums = map[string][]string{
	"membership_type":     model.MembershipTypes,
	"gender":              model.Genders,
	"specialization":      model.Specializations,
	"equipment_type":      model.EquipmentTypes,
	"equipment_condition": model.EquipmentConditions,
	"duration_type":       model.DurationTypes,
	"payment_method":      model.PaymentMethods,
	"payment_status":      model.PaymentStatuses,
	"subscription_status": model.SubscriptionStatuses,
	"gym_plan":            model.GymPlans,
}

var registerOnce sync.Once

// RegisterGinValidators 把自定义标签注册到 gin 的校验引擎，可重复调用
func RegisterGinValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = Register(v)
	})
	return err
}

// Register 在 v 上注册全部枚举标签
func Register(v *validator.Validate) error {
	for tag, values := range enums {
		allowed := make(map[string]struct{}, len(values))
		for _, value := range values {
			allowed[value] = struct{}{}
		}
		if err := v.RegisterValidation(tag, oneOf(allowed)); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func oneOf(allowed map[string]struct{}) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	}
}

// Message 把绑定错误转换成一行可读消息
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request: " + err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := toSnake(fe.Field())

	if values, ok := enums[fe.Tag()]; ok {
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(values, ", "))
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// toSnake MembershipExpiry -> membership_expiry
func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && (runes[i-1] < 'A' || runes[i-1] > 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
