package services

import (
	"log/slog"
	"net/http"
	"time"

	"content_studio/studio/auth"
	"content_studio/studio/schema"
	"content_studio/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientService struct {
	db       *gorm.DB
	userAuth *auth.Authenticator
}

func (s *ClientService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.userAuth.AuthMiddleware()...)

	r.Get("/", s.List)
	r.Post("/", s.Create)

	r.Route("/{client_id}", func(r chi.Router) {
		r.Get("/", s.Get)
		r.Put("/", s.Update)
		r.With(s.userAuth.AdminOnly).Delete("/", s.Delete)
	})

	return r
}

type clientInfo struct {
	Id                 uuid.UUID         `json:"id"`
	UserId             uuid.UUID         `json:"user_id"`
	Name               string            `json:"name"`
	Industry           string            `json:"industry"`
	Description        string            `json:"description"`
	Services           schema.StringList `json:"services"`
	TargetKeywords     schema.StringList `json:"target_keywords"`
	BrandVoice         string            `json:"brand_voice"`
	Website            string            `json:"website"`
	LinkedinProfile    string            `json:"linkedin_profile"`
	ContentPreferences schema.JSONMap    `json:"content_preferences"`
	PublishingSchedule schema.JSONMap    `json:"publishing_schedule"`
	IsActive           bool              `json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
}

func clientToInfo(client schema.Client) clientInfo {
	return clientInfo{
		Id:                 client.Id,
		UserId:             client.UserId,
		Name:               client.Name,
		Industry:           client.Industry,
		Description:        client.Description,
		Services:           client.Services,
		TargetKeywords:     client.TargetKeywords,
		BrandVoice:         client.BrandVoice,
		Website:            client.Website,
		LinkedinProfile:    client.LinkedinProfile,
		ContentPreferences: client.ContentPreferences,
		PublishingSchedule: client.PublishingSchedule,
		IsActive:           client.IsActive,
		CreatedAt:          client.CreatedAt,
	}
}

// clientScope narrows a query to the clients the user may see. Admins see
// every client, everyone else only rows they own.
func clientScope(db *gorm.DB, user schema.User) *gorm.DB {
	if user.IsAdmin() {
		return db
	}
	return db.Where("user_id = ?", user.Id)
}

func (s *ClientService) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var clients []schema.Client
	result := clientScope(s.db, user).Order("created_at DESC").Find(&clients)
	if result.Error != nil {
		slog.Error("sql error listing clients", "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	infos := make([]clientInfo, 0, len(clients))
	for _, client := range clients {
		infos = append(infos, clientToInfo(client))
	}

	utils.WriteJsonResponse(w, infos)
}

type clientRequest struct {
	Name               string            `json:"name"`
	Industry           string            `json:"industry"`
	Description        string            `json:"description"`
	Services           schema.StringList `json:"services"`
	TargetKeywords     schema.StringList `json:"target_keywords"`
	BrandVoice         string            `json:"brand_voice"`
	Website            string            `json:"website"`
	LinkedinProfile    string            `json:"linkedin_profile"`
	ContentPreferences schema.JSONMap    `json:"content_preferences"`
	PublishingSchedule schema.JSONMap    `json:"publishing_schedule"`
	IsActive           *bool             `json:"is_active"`
}

func (s *ClientService) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var params clientRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.Name == "" || params.Industry == "" {
		utils.WriteError(w, http.StatusBadRequest, "Client name and industry are required")
		return
	}

	newClient := schema.Client{
		Id:                 uuid.New(),
		UserId:             user.Id,
		Name:               params.Name,
		Industry:           params.Industry,
		Description:        params.Description,
		Services:           params.Services,
		TargetKeywords:     params.TargetKeywords,
		BrandVoice:         params.BrandVoice,
		Website:            params.Website,
		LinkedinProfile:    params.LinkedinProfile,
		ContentPreferences: params.ContentPreferences,
		PublishingSchedule: params.PublishingSchedule,
		IsActive:           true,
	}

	if result := s.db.Create(&newClient); result.Error != nil {
		slog.Error("sql error creating client", "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	utils.WriteJsonStatus(w, http.StatusCreated, clientToInfo(newClient))
}

func (s *ClientService) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	clientId, err := utils.URLParamUUID(r, "client_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := getAccessibleClient(s.db, clientId, user)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	utils.WriteJsonResponse(w, clientToInfo(client))
}

func (s *ClientService) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	clientId, err := utils.URLParamUUID(r, "client_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params clientRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	var updated schema.Client
	err = s.db.Transaction(func(txn *gorm.DB) error {
		client, err := getAccessibleClient(txn, clientId, user)
		if err != nil {
			return err
		}

		if params.Name != "" {
			client.Name = params.Name
		}
		if params.Industry != "" {
			client.Industry = params.Industry
		}
		client.Description = params.Description
		client.Services = params.Services
		client.TargetKeywords = params.TargetKeywords
		client.BrandVoice = params.BrandVoice
		client.Website = params.Website
		client.LinkedinProfile = params.LinkedinProfile
		client.ContentPreferences = params.ContentPreferences
		client.PublishingSchedule = params.PublishingSchedule
		if params.IsActive != nil {
			client.IsActive = *params.IsActive
		}

		if result := txn.Save(&client); result.Error != nil {
			slog.Error("sql error updating client", "client_id", clientId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		updated = client
		return nil
	})

	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	utils.WriteJsonResponse(w, clientToInfo(updated))
}

func (s *ClientService) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	clientId, err := utils.URLParamUUID(r, "client_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		client, err := getAccessibleClient(txn, clientId, user)
		if err != nil {
			return err
		}

		if result := txn.Where("client_id = ?", client.Id).Delete(&schema.ContentItem{}); result.Error != nil {
			slog.Error("sql error deleting client content", "client_id", clientId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		if result := txn.Delete(&client); result.Error != nil {
			slog.Error("sql error deleting client", "client_id", clientId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	slog.Info("deleted client", "client_id", clientId)

	utils.WriteSuccess(w)
}
