package models

// IDModel provides the integer surrogate key shared by every table.
type IDModel struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`
}
