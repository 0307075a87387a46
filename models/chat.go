package models

import "github.com/google/uuid"

// ChatThread represents chat_threads table. The assistant itself runs as
// an external service; these tables only persist the conversations the UI
// shows.
type ChatThread struct {
	TenantModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title  string    `gorm:"type:varchar(200);not null;default:'New conversation'" json:"title"`

	User     User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []ChatMessage `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
}

// TableName specifies the table name for ChatThread
func (ChatThread) TableName() string {
	return "chat_threads"
}

// ChatMessage represents chat_messages table
type ChatMessage struct {
	BaseModel
	ThreadID uuid.UUID `gorm:"type:uuid;not null;index" json:"thread_id"`
	Sender   string    `gorm:"type:varchar(20);not null" json:"sender"` // user | assistant
	Content  string    `gorm:"type:text;not null" json:"content"`
}

// TableName specifies the table name for ChatMessage
func (ChatMessage) TableName() string {
	return "chat_messages"
}
