package creation

import (
	"slices"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Creation is the provenance record of one completed operation.
type Creation struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"type:text;not null;index" json:"user_id"`
	Prompt    string         `gorm:"type:text;not null" json:"prompt"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Type      string         `gorm:"type:text;not null" json:"type"`
	Publish   bool           `gorm:"not null" json:"publish"`
	Likes     pq.StringArray `gorm:"type:text[];not null" json:"likes"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName returns the table name.
func (Creation) TableName() string {
	return "creations"
}

// BeforeCreate keeps likes non-null.
func (c *Creation) BeforeCreate(tx *gorm.DB) error {
	if c.Likes == nil {
		c.Likes = pq.StringArray{}
	}
	return nil
}

// LikedBy reports whether userID has liked the creation.
func (c *Creation) LikedBy(userID string) bool {
	return slices.Contains(c.Likes, userID)
}

// ToggleLike adds or removes userID from the likes and reports whether the
// creation is now liked by that user.
func (c *Creation) ToggleLike(userID string) bool {
	if c.LikedBy(userID) {
		c.Likes = slices.DeleteFunc(slices.Clone(c.Likes), func(id string) bool { return id == userID })
		return false
	}
	c.Likes = append(slices.Clone(c.Likes), userID)
	return true
}
