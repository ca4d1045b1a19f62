package domain

import (
	"time"
)

// Admin is a privileged account allowed to manage products.
// Records are created out of band and only read by the login flow.
type Admin struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Admin) TableName() string {
	return "admins"
}

// SysOprLog is an audit entry for an admin operation.
type SysOprLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	OprId     int64     `gorm:"index" json:"opr_id"`
	OprName   string    `json:"opr_name"`
	OptAction string    `gorm:"size:64;index" json:"opt_action"`
	OptDesc   string    `gorm:"type:text" json:"opt_desc"`
	OptTime   time.Time `gorm:"index" json:"opt_time"`
}

// TableName Specify table name
func (SysOprLog) TableName() string {
	return "sys_opr_log"
}
