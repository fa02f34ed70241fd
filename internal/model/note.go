package model

import "github.com/haierkeys/fast-note-web/pkg/timex"

// Note mapped from table <notes>, the table name honours database.table-prefix
type Note struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Excerpt   string     `gorm:"column:excerpt;type:text;not null" json:"excerpt" form:"excerpt"`
	Content   string     `gorm:"column:content;type:text;not null" json:"content" form:"content"`
	CreatedAt timex.Time `gorm:"column:created_at;index:idx_notes_created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}
