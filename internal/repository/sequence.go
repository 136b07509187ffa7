package repository

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/metrics"
)

// 编号冲突时最多重试的次数，超过后改用随机后缀
const maxCodeAttempts = 10

// CodeKind 描述一类可读编号：前缀、所在表和列
type CodeKind struct {
	Entity string
	Prefix string
	Table  string
	Column string
	Global bool // 全局唯一，不按健身房分段
}

var (
	MemberCode       = CodeKind{Entity: "member", Prefix: "MEM", Table: "members", Column: "member_id"}
	TrainerCode      = CodeKind{Entity: "trainer", Prefix: "TRN", Table: "trainers", Column: "trainer_id"}
	EquipmentCode    = CodeKind{Entity: "equipment", Prefix: "EQP", Table: "equipment", Column: "equipment_id"}
	PlanCode         = CodeKind{Entity: "subscription_plan", Prefix: "PLN", Table: "subscription_plans", Column: "plan_id"}
	SubscriptionCode = CodeKind{Entity: "member_subscription", Prefix: "SUB", Table: "member_subscriptions", Column: "subscription_id"}
	PaymentCode      = CodeKind{Entity: "payment", Prefix: "PAY", Table: "membership_payments", Column: "payment_id"}
	AttendanceCode   = CodeKind{Entity: "attendance", Prefix: "ATT", Table: "attendances", Column: "attendance_id", Global: true}
)

// FormatCode 生成 PREFIX-0001 形式的编号，超过 9999 时自然变宽
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// NextCode 在 tx 中为 gymOwnerID 分配下一个编号。
// 必须与插入语句处于同一事务，计数器行的更新会锁住同一租户的并发分配。
func NextCode(tx *gorm.DB, kind CodeKind, gymOwnerID int64) (string, error) {
	scope := gymOwnerID
	if kind.Global {
		scope = 0
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		n, err := incrementSequence(tx, kind, scope)
		if err != nil {
			return "", err
		}

		code := FormatCode(kind.Prefix, n)
		taken, err := codeTaken(tx, kind, scope, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		metrics.RecordCodeCollision(kind.Entity)
	}

	return RandomCode(kind.Prefix), nil
}

// RandomCode 兜底编号：PREFIX- 加 8 位大写十六进制
func RandomCode(prefix string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return prefix + "-" + strings.ToUpper(suffix)
}

func incrementSequence(tx *gorm.DB, kind CodeKind, scope int64) (int64, error) {
	result := tx.Model(&model.CodeSequence{}).
		Where("gym_owner_id = ? AND entity = ?", scope, kind.Entity).
		Update("last_value", gorm.Expr("last_value + 1"))
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected == 0 {
		seed, err := seedValue(tx, kind, scope)
		if err != nil {
			return 0, err
		}
		seq := &model.CodeSequence{GymOwnerID: scope, Entity: kind.Entity, LastValue: seed + 1}
		if err := tx.Create(seq).Error; err == nil {
			return seq.LastValue, nil
		}
		// 并发插入了同一计数器行，回到自增路径
		result = tx.Model(&model.CodeSequence{}).
			Where("gym_owner_id = ? AND entity = ?", scope, kind.Entity).
			Update("last_value", gorm.Expr("last_value + 1"))
		if result.Error != nil {
			return 0, result.Error
		}
	}

	var seq model.CodeSequence
	if err := tx.Where("gym_owner_id = ? AND entity = ?", scope, kind.Entity).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

// seedValue 计数器缺失时，从该租户最近一条记录的编号推出起点；
// 编号格式不对则退回到记录条数，没有记录为 0
func seedValue(tx *gorm.DB, kind CodeKind, scope int64) (int64, error) {
	scoped := func() *gorm.DB {
		q := tx.Table(kind.Table)
		if !kind.Global {
			q = q.Where("gym_owner_id = ?", scope)
		}
		return q
	}

	var codes []string
	if err := scoped().Order("id DESC").Limit(1).Pluck(kind.Column, &codes).Error; err != nil {
		return 0, err
	}
	if len(codes) == 0 {
		return 0, nil
	}

	if n, ok := parseCode(kind.Prefix, codes[0]); ok {
		return n, nil
	}

	var count int64
	if err := scoped().Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var codePattern = regexp.MustCompile(`^([A-Z]+)-(\d+)$`)

func parseCode(prefix, code string) (int64, bool) {
	m := codePattern.FindStringSubmatch(code)
	if m == nil || m[1] != prefix {
		return 0, false
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func codeTaken(tx *gorm.DB, kind CodeKind, scope int64, code string) (bool, error) {
	q := tx.Table(kind.Table).Where(kind.Column+" = ?", code)
	if !kind.Global {
		q = q.Where("gym_owner_id = ?", scope)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}
