package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool { return s == StatusDraft || s == StatusPublished }

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

type Staff struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         Role      `gorm:"size:20;default:staff" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// DailyReport is immutable once written. Date is YYYY-MM-DD.
type DailyReport struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	StaffID   string    `gorm:"size:36;index" json:"staff_id"`
	Staff     *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Date      string    `gorm:"size:10;index" json:"date"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type BlogPost struct {
	ID               string                      `gorm:"primaryKey;size:36" json:"id"`
	Title            string                      `gorm:"size:255" json:"title"`
	Content          string                      `gorm:"type:text" json:"content"`
	Excerpt          string                      `gorm:"type:text" json:"excerpt"`
	Status           Status                      `gorm:"size:20;index;default:draft" json:"status"`
	AuthorID         string                      `gorm:"size:36;index" json:"author_id"`
	Author           *Staff                      `gorm:"foreignKey:AuthorID" json:"staff,omitempty"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	OriginalReportID *string                     `gorm:"size:36" json:"original_report_id"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	PublishedAt      *time.Time                  `json:"published_at"`
}

// OwnerMessage is the monthly message. PublishedMonth mirrors YearMonth while
// published and is NULL otherwise; its unique index enforces one published
// message per month.
type OwnerMessage struct {
	ID             string                      `gorm:"primaryKey;size:36" json:"id"`
	YearMonth      string                      `gorm:"size:7;index" json:"year_month"`
	Title          string                      `gorm:"size:255" json:"title"`
	BodyMD         string                      `gorm:"column:body_md;type:text" json:"body_md"`
	Highlights     datatypes.JSONSlice[string] `json:"highlights"`
	Sources        datatypes.JSONSlice[string] `json:"sources"`
	Status         Status                      `gorm:"size:20;index;default:draft" json:"status"`
	PublishedMonth *string                     `gorm:"size:7;uniqueIndex" json:"-"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
	PublishedAt    *time.Time                  `json:"published_at"`
}

func (Staff) TableName() string        { return "staff" }
func (DailyReport) TableName() string  { return "daily_reports" }
func (BlogPost) TableName() string     { return "blog_posts" }
func (OwnerMessage) TableName() string { return "owner_messages" }

func (s *Staff) BeforeCreate(*gorm.DB) error        { s.ID = ensureID(s.ID); return nil }
func (r *DailyReport) BeforeCreate(*gorm.DB) error  { r.ID = ensureID(r.ID); return nil }
func (p *BlogPost) BeforeCreate(*gorm.DB) error     { p.ID = ensureID(p.ID); return nil }
func (m *OwnerMessage) BeforeCreate(*gorm.DB) error { m.ID = ensureID(m.ID); return nil }

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// Tables lists every entity in dependency order.
func Tables() []any {
	return []any{&Staff{}, &DailyReport{}, &BlogPost{}, &OwnerMessage{}}
}
