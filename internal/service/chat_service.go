package service

import (
	"context"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/chat"
)

// ChatService 会话查询服务，后台用来回看助手对话
type ChatService struct {
	repo chat.Repository
}

// NewChatService 创建会话服务
func NewChatService(repo chat.Repository) *ChatService {
	return &ChatService{repo: repo}
}

// ListContacts 返回所有出现过会话的用户标识
func (s *ChatService) ListContacts(ctx context.Context) ([]string, error) {
	return s.repo.ListContacts(ctx)
}

// ListMessages 返回某个会话的消息列表
func (s *ChatService) ListMessages(ctx context.Context, contactID string, afterID uint64, limit int) ([]*chat.Message, error) {
	return s.repo.ListByContact(ctx, contactID, afterID, limit)
}
