package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentEventLogStatus string

const (
	PaymentEventLogStatusReceived     PaymentEventLogStatus = "received"
	PaymentEventLogStatusHandled      PaymentEventLogStatus = "handled"
	PaymentEventLogStatusHandleFailed PaymentEventLogStatus = "handle_failed"
)

// PaymentEventLog 支付事件日志
// 使用场景：记录报价、轮询、状态迁移与结算事件，用于问题排查
type PaymentEventLog struct {
	ID               string                `gorm:"column:id;primary_key;type:uuid"`
	PaymentRequestID string                `gorm:"column:payment_request_id;type:uuid;index"`
	UserID           *string               `gorm:"column:user_id;type:varchar(64);default:null"`
	TraceID          string                `gorm:"column:trace_id;type:varchar(64)"`
	Event            string                `gorm:"column:event;type:varchar(64);not null"`
	EventTime        time.Time             `gorm:"column:event_time;not null"`
	Data             datatypes.JSON        `gorm:"column:data;type:jsonb;default:'{}'"`
	Result           *datatypes.JSON       `gorm:"column:result;type:jsonb;default:null"`
	Status           PaymentEventLogStatus `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt        time.Time             `json:"created_at"`
}

func (PaymentEventLog) TableName() string {
	return "payment_event_log"
}
