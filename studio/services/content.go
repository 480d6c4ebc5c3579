package services

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"content_studio/studio/auth"
	"content_studio/studio/generation"
	"content_studio/studio/schema"
	"content_studio/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	contentGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_studio_content_generated_total",
		Help: "Content drafts generated, by content type.",
	}, []string{"type"})

	contentGenerationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_studio_content_generation_failures_total",
		Help: "Content generation attempts that returned an error.",
	})

	contentPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_studio_content_published_total",
		Help: "Content items published.",
	})
)

type ContentService struct {
	db       *gorm.DB
	userAuth *auth.Authenticator
	llm      generation.LLM
}

func (s *ContentService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.userAuth.AuthMiddleware()...)

	r.Get("/", s.List)
	r.Post("/generate", s.Generate)

	r.Route("/{content_id}", func(r chi.Router) {
		r.Get("/", s.Get)
		r.Put("/", s.Update)
		r.Post("/schedule", s.Schedule)
		r.Post("/publish", s.Publish)
	})

	return r
}

type contentInfo struct {
	Id           uuid.UUID         `json:"id"`
	ClientId     uuid.UUID         `json:"client_id"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Type         string            `json:"type"`
	Status       string            `json:"status"`
	ScheduledFor *time.Time        `json:"scheduled_for"`
	PublishedAt  *time.Time        `json:"published_at"`
	Platforms    schema.StringList `json:"platforms"`
	CreatedAt    time.Time         `json:"created_at"`
}

func contentToInfo(content schema.ContentItem) contentInfo {
	return contentInfo{
		Id:           content.Id,
		ClientId:     content.ClientId,
		Title:        content.Title,
		Body:         content.Body,
		Type:         content.Type,
		Status:       content.Status,
		ScheduledFor: content.ScheduledFor,
		PublishedAt:  content.PublishedAt,
		Platforms:    content.Platforms,
		CreatedAt:    content.CreatedAt,
	}
}

// contentScope narrows the query to content under clients the user may see.
func contentScope(db *gorm.DB, user schema.User) *gorm.DB {
	query := db.Model(&schema.ContentItem{})
	if user.IsAdmin() {
		return query
	}
	return query.
		Joins("JOIN clients ON clients.id = content_items.client_id").
		Where("clients.user_id = ?", user.Id)
}

func (s *ContentService) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	query := contentScope(s.db, user)

	if clientId := r.URL.Query().Get("client_id"); clientId != "" {
		id, err := uuid.Parse(clientId)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid client_id filter '%v'", clientId))
			return
		}
		query = query.Where("content_items.client_id = ?", id)
	}

	if status := r.URL.Query().Get("status"); status != "" {
		if err := schema.CheckValidStatus(status); err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		query = query.Where("content_items.status = ?", status)
	}

	var items []schema.ContentItem
	result := query.Order("content_items.created_at DESC").Find(&items)
	if result.Error != nil {
		slog.Error("sql error listing content", "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	infos := make([]contentInfo, 0, len(items))
	for _, item := range items {
		infos = append(infos, contentToInfo(item))
	}

	utils.WriteJsonResponse(w, infos)
}

type generateRequest struct {
	ClientId  uuid.UUID         `json:"client_id"`
	Type      string            `json:"type"`
	Topic     string            `json:"topic"`
	Platforms schema.StringList `json:"platforms"`
}

func (s *ContentService) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var params generateRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.ClientId == uuid.Nil {
		utils.WriteError(w, http.StatusBadRequest, "client_id is required")
		return
	}
	if err := schema.CheckValidContentType(params.Type); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := getAccessibleClient(s.db, params.ClientId, user)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	draft, err := s.llm.Draft(r.Context(), generation.DraftRequest{
		ClientName:  client.Name,
		Industry:    client.Industry,
		BrandVoice:  client.BrandVoice,
		Keywords:    client.TargetKeywords,
		ContentType: params.Type,
		Topic:       params.Topic,
	})
	if err != nil {
		contentGenerationFailures.Inc()
		slog.Error("content generation failed", "client_id", client.Id, "type", params.Type, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("content generation failed: %v", err))
		return
	}

	newContent := schema.ContentItem{
		Id:        uuid.New(),
		ClientId:  client.Id,
		Title:     draft.Title,
		Body:      draft.Body,
		Type:      params.Type,
		Status:    schema.Draft,
		Platforms: params.Platforms,
	}

	if result := s.db.Create(&newContent); result.Error != nil {
		slog.Error("sql error creating content", "client_id", client.Id, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	contentGenerated.WithLabelValues(params.Type).Inc()

	utils.WriteJsonStatus(w, http.StatusCreated, contentToInfo(newContent))
}

func (s *ContentService) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	contentId, err := utils.URLParamUUID(r, "content_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := getAccessibleContent(s.db, contentId, user)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	utils.WriteJsonResponse(w, contentToInfo(content))
}

type updateContentRequest struct {
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Type      string            `json:"type"`
	Platforms schema.StringList `json:"platforms"`
}

func (s *ContentService) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	contentId, err := utils.URLParamUUID(r, "content_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params updateContentRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.Type != "" {
		if err := schema.CheckValidContentType(params.Type); err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var updated schema.ContentItem
	err = s.db.Transaction(func(txn *gorm.DB) error {
		content, err := getAccessibleContent(txn, contentId, user)
		if err != nil {
			return err
		}

		if params.Title != "" {
			content.Title = params.Title
		}
		if params.Body != "" {
			content.Body = params.Body
		}
		if params.Type != "" {
			content.Type = params.Type
		}
		if params.Platforms != nil {
			content.Platforms = params.Platforms
		}

		if result := txn.Save(&content); result.Error != nil {
			slog.Error("sql error updating content", "content_id", contentId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		updated = content
		return nil
	})

	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	utils.WriteJsonResponse(w, contentToInfo(updated))
}

type scheduleRequest struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

func (s *ContentService) Schedule(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	contentId, err := utils.URLParamUUID(r, "content_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params scheduleRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.ScheduledFor.IsZero() {
		utils.WriteError(w, http.StatusBadRequest, "scheduled_for is required")
		return
	}

	var updated schema.ContentItem
	err = s.db.Transaction(func(txn *gorm.DB) error {
		content, err := getAccessibleContent(txn, contentId, user)
		if err != nil {
			return err
		}

		content.Status = schema.Scheduled
		content.ScheduledFor = &params.ScheduledFor

		if result := txn.Save(&content); result.Error != nil {
			slog.Error("sql error scheduling content", "content_id", contentId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		updated = content
		return nil
	})

	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	utils.WriteJsonResponse(w, contentToInfo(updated))
}

func (s *ContentService) Publish(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	contentId, err := utils.URLParamUUID(r, "content_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var updated schema.ContentItem
	err = s.db.Transaction(func(txn *gorm.DB) error {
		content, err := getAccessibleContent(txn, contentId, user)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		content.Status = schema.Published
		content.PublishedAt = &now

		if result := txn.Save(&content); result.Error != nil {
			slog.Error("sql error publishing content", "content_id", contentId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		updated = content
		return nil
	})

	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	contentPublished.Inc()

	utils.WriteJsonResponse(w, contentToInfo(updated))
}
