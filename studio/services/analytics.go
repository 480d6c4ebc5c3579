package services

import (
	"log/slog"
	"net/http"

	"content_studio/studio/auth"
	"content_studio/studio/schema"
	"content_studio/utils"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	db       *gorm.DB
	userAuth *auth.Authenticator
}

func (s *AnalyticsService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.userAuth.AuthMiddleware()...)

	r.Get("/overview", s.Overview)
	r.Get("/performance", s.Performance)
	r.With(s.userAuth.AdminOnly).Get("/system", s.System)

	return r
}

type overviewResponse struct {
	Clients           int64            `json:"clients"`
	ActiveClients     int64            `json:"active_clients"`
	Content           int64            `json:"content"`
	ContentByStatus   map[string]int64 `json:"content_by_status"`
	ScheduledUpcoming int64            `json:"scheduled_upcoming"`
}

type statusCount struct {
	Status string
	Count  int64
}

func (s *AnalyticsService) Overview(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var resp overviewResponse

	if err := clientScope(s.db.Model(&schema.Client{}), user).Count(&resp.Clients).Error; err != nil {
		slog.Error("sql error counting clients", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	if err := clientScope(s.db.Model(&schema.Client{}), user).Where("is_active = ?", true).Count(&resp.ActiveClients).Error; err != nil {
		slog.Error("sql error counting active clients", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	if err := contentScope(s.db, user).Count(&resp.Content).Error; err != nil {
		slog.Error("sql error counting content", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	var byStatus []statusCount
	err := contentScope(s.db, user).
		Select("content_items.status as status, count(*) as count").
		Group("content_items.status").
		Scan(&byStatus).Error
	if err != nil {
		slog.Error("sql error aggregating content by status", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	resp.ContentByStatus = make(map[string]int64, len(byStatus))
	for _, row := range byStatus {
		resp.ContentByStatus[row.Status] = row.Count
	}
	resp.ScheduledUpcoming = resp.ContentByStatus[schema.Scheduled]

	utils.WriteJsonResponse(w, resp)
}

type performanceRow struct {
	Type      string `json:"type"`
	Published int64  `json:"published"`
}

type performanceResponse struct {
	TotalPublished  int64            `json:"total_published"`
	PublishedByType []performanceRow `json:"published_by_type"`
}

func (s *AnalyticsService) Performance(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var rows []performanceRow
	err := contentScope(s.db, user).
		Where("content_items.status = ?", schema.Published).
		Select("content_items.type as type, count(*) as published").
		Group("content_items.type").
		Scan(&rows).Error
	if err != nil {
		slog.Error("sql error aggregating published content", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	resp := performanceResponse{PublishedByType: rows}
	for _, row := range rows {
		resp.TotalPublished += row.Published
	}

	utils.WriteJsonResponse(w, resp)
}

type systemResponse struct {
	Users   int64 `json:"users"`
	Admins  int64 `json:"admins"`
	Clients int64 `json:"clients"`
	Content int64 `json:"content"`
}

func (s *AnalyticsService) System(w http.ResponseWriter, r *http.Request) {
	var resp systemResponse

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{query: s.db.Model(&schema.User{}), dest: &resp.Users},
		{query: s.db.Model(&schema.User{}).Where("role = ?", schema.RoleAdmin), dest: &resp.Admins},
		{query: s.db.Model(&schema.Client{}), dest: &resp.Clients},
		{query: s.db.Model(&schema.ContentItem{}), dest: &resp.Content},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			slog.Error("sql error computing system totals", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
			return
		}
	}

	utils.WriteJsonResponse(w, resp)
}
