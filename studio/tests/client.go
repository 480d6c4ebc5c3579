package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

// apiError is the parsed form of an error response, along with the http
// status it arrived with.
type apiError struct {
	Status   int
	Category string
	Message  string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d (%v): %v", e.Status, e.Category, e.Message)
}

func jsonDecode(r io.Reader, dest interface{}) error {
	return json.NewDecoder(r).Decode(dest)
}

func asApiError(err error, target **apiError) bool {
	return errors.As(err, target)
}

func statusOf(err error) int {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type httpTestRequest struct {
	api http.Handler

	method   string
	endpoint string
	headers  map[string]string
	json     interface{}
	body     io.Reader
}

func newHttpTestRequest(api http.Handler, method, endpoint string) *httpTestRequest {
	return &httpTestRequest{
		api:      api,
		method:   method,
		endpoint: endpoint,
	}
}

func (r *httpTestRequest) Header(key, value string) *httpTestRequest {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

func (r *httpTestRequest) Auth(token string) *httpTestRequest {
	return r.Header("Authorization", fmt.Sprintf("Bearer %v", token))
}

func (r *httpTestRequest) Json(data interface{}) *httpTestRequest {
	r.json = data
	return r
}

// response body will be parsed into result, passing nil indicates that no result is returned.
func (r *httpTestRequest) Do(result interface{}) error {
	if r.json != nil {
		body := new(bytes.Buffer)
		err := json.NewEncoder(body).Encode(r.json)
		if err != nil {
			return fmt.Errorf("error encoding json body for endpoint %v: %w", r.endpoint, err)
		}
		r.body = body
	}

	req := httptest.NewRequest(r.method, r.endpoint, r.body)
	if r.headers != nil {
		for k, v := range r.headers {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()

	r.api.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		apiErr := &apiError{Status: res.StatusCode}
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
			apiErr.Category = body.Error
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if result != nil {
		err := json.NewDecoder(res.Body).Decode(result)
		if err != nil {
			return fmt.Errorf("error parsing %v response from endpoint %v: %w", r.method, r.endpoint, err)
		}
	}

	return nil
}

type client struct {
	api       chi.Router
	authToken string
}

func (c *client) request(method, endpoint string) *httpTestRequest {
	r := newHttpTestRequest(c.api, method, endpoint)
	if c.authToken != "" {
		return r.Auth(c.authToken)
	}
	return r
}

func (c *client) Get(endpoint string) *httpTestRequest {
	return c.request("GET", endpoint)
}

func (c *client) Post(endpoint string) *httpTestRequest {
	return c.request("POST", endpoint)
}

func (c *client) Put(endpoint string) *httpTestRequest {
	return c.request("PUT", endpoint)
}

func (c *client) Delete(endpoint string) *httpTestRequest {
	return c.request("DELETE", endpoint)
}

type userInfo struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func (c *client) profile() (userInfo, error) {
	var info userInfo
	err := c.Get("/api/auth/profile").Do(&info)
	return info, err
}

type clientInfo struct {
	Id             string   `json:"id"`
	UserId         string   `json:"user_id"`
	Name           string   `json:"name"`
	Industry       string   `json:"industry"`
	Description    string   `json:"description"`
	TargetKeywords []string `json:"target_keywords"`
	BrandVoice     string   `json:"brand_voice"`
	IsActive       bool     `json:"is_active"`
}

func (c *client) createClient(name, industry string) (clientInfo, error) {
	var info clientInfo
	err := c.Post("/api/clients").Json(map[string]interface{}{
		"name":     name,
		"industry": industry,
	}).Do(&info)
	return info, err
}

func (c *client) listClients() ([]clientInfo, error) {
	var infos []clientInfo
	err := c.Get("/api/clients").Do(&infos)
	return infos, err
}

type contentInfo struct {
	Id           string   `json:"id"`
	ClientId     string   `json:"client_id"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	ScheduledFor *string  `json:"scheduled_for"`
	PublishedAt  *string  `json:"published_at"`
	Platforms    []string `json:"platforms"`
}

func (c *client) generateContent(clientId, contentType, topic string) (contentInfo, error) {
	var info contentInfo
	err := c.Post("/api/content/generate").Json(map[string]interface{}{
		"client_id": clientId,
		"type":      contentType,
		"topic":     topic,
	}).Do(&info)
	return info, err
}

func (c *client) listContent(query string) ([]contentInfo, error) {
	var infos []contentInfo
	err := c.Get("/api/content" + query).Do(&infos)
	return infos, err
}
