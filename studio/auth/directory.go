package auth

import (
	"errors"
	"log/slog"
	"strings"

	"content_studio/studio/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDirectory maps verified identities to local user rows, creating them
// on first sight. The role is derived from the admin allow-list at creation
// time only; later email changes upstream never alter an existing row.
type UserDirectory struct {
	db          *gorm.DB
	adminEmails map[string]struct{}
}

func NewUserDirectory(db *gorm.DB, adminEmails []string) *UserDirectory {
	emails := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			emails[email] = struct{}{}
		}
	}
	return &UserDirectory{db: db, adminEmails: emails}
}

func (d *UserDirectory) RoleForEmail(email string) string {
	if _, ok := d.adminEmails[strings.ToLower(email)]; ok {
		return schema.RoleAdmin
	}
	return schema.RoleClient
}

func (d *UserDirectory) ResolveOrCreate(claims Claims) (schema.User, error) {
	user, err := schema.GetUserByExternalId(claims.Subject, d.db)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, schema.ErrUserNotFound) {
		return schema.User{}, err
	}

	user = schema.User{
		Id:          uuid.New(),
		ExternalId:  claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Role:        d.RoleForEmail(claims.Email),
	}

	result := d.db.Create(&user)
	if result.Error != nil {
		// A concurrent first request for the same identity may have won the
		// insert race. The unique constraint on external_id makes creation
		// idempotent: the losing writer fetches and returns the winner's row.
		existing, lookupErr := schema.GetUserByExternalId(claims.Subject, d.db)
		if lookupErr == nil {
			return existing, nil
		}
		slog.Error("sql error creating user on first sight", "external_id", claims.Subject, "error", result.Error)
		return schema.User{}, schema.ErrDbAccessFailed
	}

	slog.Info("created user for new identity", "user_id", user.Id, "email", user.Email, "role", user.Role)

	return user, nil
}
