package model

// CodeSequence 每个 (gym_owner, entity) 的编号计数器；GymOwnerID 为 0 表示全局
type CodeSequence struct {
	ID         int64  `gorm:"primaryKey"`
	GymOwnerID int64  `gorm:"not null;uniqueIndex:uk_code_sequence,priority:1"`
	Entity     string `gorm:"size:30;not null;uniqueIndex:uk_code_sequence,priority:2"`
	LastValue  int64  `gorm:"not null;default:0"`
}

func (CodeSequence) TableName() string {
	return "code_sequences"
}
