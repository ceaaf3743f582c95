package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message senders.
const (
	SenderClient = "client"
	SenderStaff  = "staff"
)

// Message is one entry in a client's support thread. Client posts trigger
// a delayed staff auto-reply via ReplyAfter, handled by the same poller
// that verifies documents.
type Message struct {
	ID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string     `gorm:"not null;index" json:"user_id"`
	Sender     string     `gorm:"not null" json:"sender"`
	Body       string     `gorm:"not null" json:"body"`
	ReplyAfter *time.Time `json:"-"`
	Replied    bool       `gorm:"default:false" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
