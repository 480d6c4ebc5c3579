package schema

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrContentNotFound = errors.New("content not found")
	ErrDbAccessFailed  = errors.New("db access failed")
)

func GetUser(userId uuid.UUID, db *gorm.DB) (User, error) {
	var user User

	result := db.First(&user, "id = ?", userId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		slog.Error("sql error in get user", "user_id", userId, "error", result.Error)
		return user, ErrDbAccessFailed
	}

	return user, nil
}

func GetUserByExternalId(externalId string, db *gorm.DB) (User, error) {
	var user User

	result := db.First(&user, "external_id = ?", externalId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		slog.Error("sql error in get user by external id", "external_id", externalId, "error", result.Error)
		return user, ErrDbAccessFailed
	}

	return user, nil
}

func GetClient(clientId uuid.UUID, db *gorm.DB) (Client, error) {
	var client Client

	result := db.First(&client, "id = ?", clientId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return client, ErrClientNotFound
		}
		slog.Error("sql error in get client", "client_id", clientId, "error", result.Error)
		return client, ErrDbAccessFailed
	}

	return client, nil
}

func GetContentItem(contentId uuid.UUID, db *gorm.DB) (ContentItem, error) {
	var content ContentItem

	result := db.First(&content, "id = ?", contentId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return content, ErrContentNotFound
		}
		slog.Error("sql error in get content item", "content_id", contentId, "error", result.Error)
		return content, ErrDbAccessFailed
	}

	return content, nil
}
