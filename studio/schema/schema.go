package schema

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

const (
	BlogPost     = "blog_post"
	SocialPost   = "social_post"
	LinkedinPost = "linkedin_post"
	SeoArticle   = "seo_article"
)

const (
	Draft     = "draft"
	Scheduled = "scheduled"
	Published = "published"
	Archived  = "archived"
	Failed    = "failed"
)

func CheckValidContentType(contentType string) error {
	switch contentType {
	case BlogPost, SocialPost, LinkedinPost, SeoArticle:
		return nil
	}
	return fmt.Errorf("invalid content type '%v'", contentType)
}

func CheckValidStatus(status string) error {
	switch status {
	case Draft, Scheduled, Published, Archived, Failed:
		return nil
	}
	return fmt.Errorf("invalid content status '%v'", status)
}

type User struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Subject id assigned by the identity provider. The unique constraint is
	// what makes first-sight user creation idempotent under concurrent
	// requests (see auth.UserDirectory).
	ExternalId string `gorm:"unique;size:128;not null"`

	Email       string `gorm:"size:254;not null"`
	DisplayName string `gorm:"size:100"`

	Role string `gorm:"size:20;not null;default:'client'"`

	CreatedAt time.Time

	Clients []Client `gorm:"constraint:OnDelete:CASCADE"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Client struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserId uuid.UUID `gorm:"type:uuid;not null;index"`
	User   *User

	Name     string `gorm:"size:200;not null"`
	Industry string `gorm:"size:100;not null"`

	Description     string
	Services        StringList `gorm:"type:text"`
	TargetKeywords  StringList `gorm:"type:text"`
	BrandVoice      string     `gorm:"size:100"`
	Website         string     `gorm:"size:500"`
	LinkedinProfile string     `gorm:"size:500"`

	ContentPreferences JSONMap `gorm:"type:text"`
	PublishingSchedule JSONMap `gorm:"type:text"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time

	Content []ContentItem `gorm:"foreignKey:ClientId;constraint:OnDelete:CASCADE"`
}

type ContentItem struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	ClientId uuid.UUID `gorm:"type:uuid;not null;index"`
	Client   *Client

	Title string `gorm:"size:300;not null"`
	Body  string

	Type string `gorm:"size:50;not null"`

	// The draft -> scheduled -> published/failed transitions are declared by
	// these values but not enforced on writes.
	Status string `gorm:"size:50;not null;default:'draft'"`

	ScheduledFor *time.Time
	PublishedAt  *time.Time

	Platforms StringList `gorm:"type:text"`

	CreatedAt time.Time
}
