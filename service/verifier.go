package services

import (
	"time"

	"github.com/sirupsen/logrus"

	model "github.com/clearfile/taxportal/models"
)

const autoReplyBody = "Thanks for reaching out! A member of your tax team has received your message and will get back to you shortly."

// StartBackgroundWorkers launches the deferred-work poller. Verification
// schedules and auto-reply times live in the database, so pending work
// survives a restart; the poller just sweeps for anything due. Returns a
// stop function.
func (s *PortalService) StartBackgroundWorkers() func() {
	interval := time.Duration(s.cfg.PollIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.verifyDueDocuments()
				s.sendDueAutoReplies()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

// verifyDueDocuments flips processing documents whose verification time
// has passed. Failures are logged and retried on the next sweep.
func (s *PortalService) verifyDueDocuments() {
	result := s.db.Model(&model.Document{}).
		Where("status = ? AND verify_after IS NOT NULL AND verify_after <= ?", model.StatusProcessing, time.Now()).
		Updates(map[string]interface{}{
			"status":     model.StatusVerified,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		logrus.WithError(result.Error).Warn("[verifyDueDocuments] sweep failed")
		return
	}
	if result.RowsAffected > 0 {
		logrus.Infof("[verifyDueDocuments] verified %d documents", result.RowsAffected)
	}
}

// sendDueAutoReplies posts the simulated staff reply for client messages
// whose delay has elapsed.
func (s *PortalService) sendDueAutoReplies() {
	var due []model.Message
	err := s.db.Where("sender = ? AND replied = ? AND reply_after IS NOT NULL AND reply_after <= ?",
		model.SenderClient, false, time.Now()).Find(&due).Error
	if err != nil {
		logrus.WithError(err).Warn("[sendDueAutoReplies] sweep failed")
		return
	}

	for _, msg := range due {
		reply := model.Message{
			UserID: msg.UserID,
			Sender: model.SenderStaff,
			Body:   autoReplyBody,
		}
		if err := s.db.Create(&reply).Error; err != nil {
			logrus.WithError(err).Warnf("[sendDueAutoReplies] reply failed for message %s", msg.ID)
			continue
		}
		if err := s.db.Model(&model.Message{}).Where("id = ?", msg.ID).Update("replied", true).Error; err != nil {
			logrus.WithError(err).Warnf("[sendDueAutoReplies] flagging message %s failed", msg.ID)
		}
	}
}
