package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	model "github.com/clearfile/taxportal/models"
)

// GetMessages returns the client's support thread, oldest first.
func (s *PortalService) GetMessages(userID string) ([]model.Message, error) {
	var messages []model.Message
	if err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// PostMessage adds a client message and schedules the simulated staff
// auto-reply. The reply time is persisted so the poller can deliver it
// even across a restart.
func (s *PortalService) PostMessage(userID, body string) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message body is empty", ErrValidation)
	}

	replyAfter := time.Now().Add(time.Duration(s.cfg.AutoReplyDelaySec) * time.Second)
	msg := model.Message{
		UserID:     userID,
		Sender:     model.SenderClient,
		Body:       body,
		ReplyAfter: &replyAfter,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	logrus.Infof("[PostMessage] message %s queued for auto-reply", msg.ID)
	return &msg, nil
}
