package model

import (
	"time"
)

const TableNameTLmsEnvironment = "t_lms_environment"

// TLmsEnvironment LMS 环境配置表，由管理后台维护，本服务只读
type TLmsEnvironment struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" copier:"-"`
	CreatedAt      *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at" json:"updated_at"`
	IsDelete       *bool      `gorm:"column:is_delete;default:0;index:idx_lms_env_is_delete" json:"is_delete"`
	Code           string     `gorm:"column:code;type:varchar(64);not null;uniqueIndex:uk_lms_env_code" json:"code" copier:"ID"`
	Name           string     `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Domain         string     `gorm:"column:domain;type:varchar(100);not null" json:"domain"`
	Host           string     `gorm:"column:host;type:varchar(255);not null" json:"host"`
	Headers        *string    `gorm:"column:headers;type:json" json:"headers" copier:"-"`
	BaseParams     *string    `gorm:"column:base_params;type:json" json:"base_params" copier:"-"`
	UserCode       *string    `gorm:"column:user_code;type:varchar(100)" json:"user_code"`
	MasterPassword *string    `gorm:"column:master_password;type:varchar(255)" json:"-"`
	RootPassword   *string    `gorm:"column:root_password;type:varchar(255)" json:"-"`
	Sort           *int64     `gorm:"column:sort;default:0" json:"sort"`
	Status         *int32     `gorm:"column:status;default:1" json:"status"`
}

// TableName TLmsEnvironment's table name
func (*TLmsEnvironment) TableName() string {
	return TableNameTLmsEnvironment
}
