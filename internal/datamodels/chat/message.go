package chat

import (
	"context"
	"time"
)

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 购物助手会话消息，按用户维度归档，后台可回看
type Message struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	ContactID string    `gorm:"size:64;index;not null" json:"contact_id"` // 会话标识，这里用用户 ID
	Role      string    `gorm:"size:16;not null" json:"role"`             // user / assistant
	Content   string    `gorm:"size:2048;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Repository 会话消息仓储接口
type Repository interface {
	ListByContact(ctx context.Context, contactID string, afterID uint64, limit int) ([]*Message, error)
	ListContacts(ctx context.Context) ([]string, error)
	Create(ctx context.Context, m *Message) error
}
