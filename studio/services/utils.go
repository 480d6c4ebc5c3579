package services

import (
	"errors"
	"log/slog"
	"net/http"

	"content_studio/studio/auth"
	"content_studio/studio/schema"
	"content_studio/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(err error, code int) error {
	return &codedError{err: err, code: code}
}

func GetResponseCode(err error) int {
	var cerr *codedError
	if errors.As(err, &cerr) {
		return cerr.code
	}
	slog.Error("non coded error passed to GetResponseCode", "error", err)
	return http.StatusInternalServerError
}

func writeErrorResponse(w http.ResponseWriter, err error) {
	utils.WriteError(w, GetResponseCode(err), err.Error())
}

// getAccessibleClient applies the ownership rule shared by the client and
// content endpoints: admins reach every client, others only their own.
func getAccessibleClient(txn *gorm.DB, clientId uuid.UUID, user schema.User) (schema.Client, error) {
	client, err := schema.GetClient(clientId, txn)
	if err != nil {
		if errors.Is(err, schema.ErrClientNotFound) {
			return schema.Client{}, CodedError(err, http.StatusNotFound)
		}
		return schema.Client{}, CodedError(err, http.StatusInternalServerError)
	}

	if !user.IsAdmin() && client.UserId != user.Id {
		return schema.Client{}, CodedError(errors.New("client is not accessible to user"), http.StatusForbidden)
	}

	return client, nil
}

func getAccessibleContent(txn *gorm.DB, contentId uuid.UUID, user schema.User) (schema.ContentItem, error) {
	content, err := schema.GetContentItem(contentId, txn)
	if err != nil {
		if errors.Is(err, schema.ErrContentNotFound) {
			return schema.ContentItem{}, CodedError(err, http.StatusNotFound)
		}
		return schema.ContentItem{}, CodedError(err, http.StatusInternalServerError)
	}

	if _, err := getAccessibleClient(txn, content.ClientId, user); err != nil {
		return schema.ContentItem{}, err
	}

	return content, nil
}

func requestUser(w http.ResponseWriter, r *http.Request) (schema.User, bool) {
	user, err := auth.UserFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return schema.User{}, false
	}
	return user, true
}
