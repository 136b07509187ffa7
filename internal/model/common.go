package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = StringArray{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported StringArray source %T", value)
	}
}

// 会员类型
const (
	MembershipBasic   = "basic"
	MembershipPremium = "premium"
	MembershipVIP     = "vip"
)

// 支付方式
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentUPI          = "upi"
	PaymentBankTransfer = "bank_transfer"
	PaymentOnline       = "online"
	PaymentCheque       = "cheque"
)

// 支付状态
const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// 会员订阅状态
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
	SubscriptionSuspended = "suspended"
	SubscriptionPending   = "pending"
)

// 枚举取值，供参数校验使用
var (
	MembershipTypes      = []string{MembershipBasic, MembershipPremium, MembershipVIP}
	Genders              = []string{"male", "female", "other"}
	Specializations      = []string{"weight_training", "cardio", "yoga", "pilates", "crossfit", "martial_arts", "swimming", "general"}
	EquipmentTypes       = []string{"cardio", "strength", "free_weights", "functional", "other"}
	EquipmentConditions  = []string{"excellent", "good", "fair", "poor", "out_of_order"}
	DurationTypes        = []string{"days", "weeks", "months", "years"}
	PaymentMethods       = []string{PaymentCash, PaymentCard, PaymentUPI, PaymentBankTransfer, PaymentOnline, PaymentCheque}
	PaymentStatuses      = []string{PaymentStatusCompleted, PaymentStatusPending, PaymentStatusFailed, PaymentStatusRefunded}
	SubscriptionStatuses = []string{SubscriptionActive, SubscriptionExpired, SubscriptionCancelled, SubscriptionSuspended, SubscriptionPending}
	GymPlans             = []string{"basic", "premium", "enterprise"}
)

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&GymOwner{},
		&Member{},
		&Trainer{},
		&Equipment{},
		&SubscriptionPlan{},
		&MemberSubscription{},
		&MembershipPayment{},
		&Attendance{},
		&TrainerMemberAssociation{},
		&Notification{},
		&CodeSequence{},
	}
}
