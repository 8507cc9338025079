package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/terzigolu/gtd-go/internal/gtd"
	"github.com/terzigolu/gtd-go/pkg/models"
	"github.com/terzigolu/gtd-go/pkg/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return NewRouter(db, gtd.NewService(db)), db
}

func newTokenUser(t *testing.T, db *gorm.DB, username, token string) {
	t.Helper()
	u := models.User{Username: username}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Create(&models.AuthToken{Key: token, UserID: u.ID}).Error; err != nil {
		t.Fatalf("create token: %v", err)
	}
}

func do(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	newTokenUser(t, db, "alice", "alice-token")

	// create
	w := do(t, r, http.MethodPost, "/v1/tasks", "alice-token",
		`{"name": "write report", "simpletags": [{"name": "work"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /v1/tasks = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Readiness  string `json:"readiness"`
		SimpleTags []struct {
			Name string `json:"name"`
		} `json:"simpletags"`
	}
	decodeBody(t, w, &created)
	if created.Readiness != "inbox" {
		t.Errorf("readiness = %q, want inbox", created.Readiness)
	}
	if len(created.SimpleTags) != 1 || created.SimpleTags[0].Name != "work" {
		t.Errorf("simpletags = %+v, want ['work']", created.SimpleTags)
	}

	// get
	w = do(t, r, http.MethodGet, "/v1/tasks/"+created.ID, "alice-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET = %d, body %s", w.Code, w.Body.String())
	}

	// patch
	w = do(t, r, http.MethodPatch, "/v1/tasks/"+created.ID, "alice-token", `{"done": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH = %d, body %s", w.Code, w.Body.String())
	}
	var patched struct {
		Done bool   `json:"done"`
		Name string `json:"name"`
	}
	decodeBody(t, w, &patched)
	if !patched.Done || patched.Name != "write report" {
		t.Errorf("patched = %+v, want done with name intact", patched)
	}

	// toggle
	w = do(t, r, http.MethodPatch, "/v1/tasks/"+created.ID+"/toggle-focus", "alice-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle-focus = %d, body %s", w.Code, w.Body.String())
	}

	// disable, then the task is gone
	w = do(t, r, http.MethodPatch, "/v1/tasks/"+created.ID+"/disable", "alice-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("disable = %d, body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodGet, "/v1/tasks/"+created.ID, "alice-token", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET after disable = %d, want 404", w.Code)
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodPost, "/v1/tasks", `{"name": "x"}`},
		{http.MethodGet, "/v1/tasks", ""},
		{http.MethodPost, "/v1/places", `{"name": "office"}`},
	} {
		w := do(t, r, tc.method, tc.path, "", tc.body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}

func TestUnknownTokenIsUnauthorized(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/v1/tasks", "no-such-token", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("GET with bad token = %d, want 401", w.Code)
	}
}

func TestForbiddenAcrossUsers(t *testing.T) {
	r, db := newTestRouter(t)
	newTokenUser(t, db, "owner", "owner-token")
	newTokenUser(t, db, "intruder", "intruder-token")

	w := do(t, r, http.MethodPost, "/v1/tasks", "owner-token", `{"name": "private"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &created)

	w = do(t, r, http.MethodGet, "/v1/tasks/"+created.ID, "intruder-token", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("GET as intruder = %d, want 403", w.Code)
	}
	// and the intruder's listing stays empty
	w = do(t, r, http.MethodGet, "/v1/tasks", "intruder-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET list = %d", w.Code)
	}
	var tasks []json.RawMessage
	decodeBody(t, w, &tasks)
	if len(tasks) != 0 {
		t.Errorf("intruder sees %d tasks, want 0", len(tasks))
	}
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	newTokenUser(t, db, "val", "val-token")

	w := do(t, r, http.MethodPost, "/v1/tasks", "val-token", `{"name": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank name = %d, want 400", w.Code)
	}
	var ve map[string][]string
	decodeBody(t, w, &ve)
	if len(ve["name"]) == 0 {
		t.Errorf("body = %v, want field error on name", ve)
	}

	// duplicate place
	w = do(t, r, http.MethodPost, "/v1/places", "val-token", `{"name": "office"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("first place = %d, body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPost, "/v1/places", "val-token", `{"name": "office"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate place = %d, want 400", w.Code)
	}
	decodeBody(t, w, &ve)
	if len(ve["non_field_errors"]) == 0 {
		t.Errorf("body = %v, want non_field_errors", ve)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	r, db := newTestRouter(t)
	newTokenUser(t, db, "mal", "mal-token")

	w := do(t, r, http.MethodGet, "/v1/tasks/not-a-uuid", "mal-token", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET malformed id = %d, want 404", w.Code)
	}
}

func TestListTasksFilterOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	newTokenUser(t, db, "filter", "filter-token")

	for _, body := range []string{
		`{"name": "a"}`,
		`{"name": "b", "readiness": "anytime"}`,
		`{"name": "c", "readiness": "anytime", "focus": true}`,
	} {
		if w := do(t, r, http.MethodPost, "/v1/tasks", "filter-token", body); w.Code != http.StatusCreated {
			t.Fatalf("POST = %d, body %s", w.Code, w.Body.String())
		}
	}

	w := do(t, r, http.MethodGet, "/v1/tasks?readiness=anytime&focus=true", "filter-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET = %d, body %s", w.Code, w.Body.String())
	}
	var tasks []struct {
		Name string `json:"name"`
	}
	decodeBody(t, w, &tasks)
	if len(tasks) != 1 || tasks[0].Name != "c" {
		t.Errorf("got %+v, want only task c", tasks)
	}

	w = do(t, r, http.MethodGet, "/v1/tasks?readiness=bogus", "filter-token", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bogus readiness = %d, want 400", w.Code)
	}
}

func TestProjectRoutesOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	newTokenUser(t, db, "proj", "proj-token")

	w := do(t, r, http.MethodPost, "/v1/projects", "proj-token",
		`{"name": "Launch", "area": {"name": "Work"}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /v1/projects = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID   string `json:"id"`
		Area *struct {
			Name string `json:"name"`
		} `json:"area"`
	}
	decodeBody(t, w, &created)
	if created.Area == nil || created.Area.Name != "Work" {
		t.Fatalf("area = %+v, want 'Work'", created.Area)
	}

	w = do(t, r, http.MethodPatch, "/v1/projects/"+created.ID, "proj-token", `{"area": null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH = %d, body %s", w.Code, w.Body.String())
	}
	var patched struct {
		Area *struct{} `json:"area"`
	}
	decodeBody(t, w, &patched)
	if patched.Area != nil {
		t.Errorf("area = %+v, want cleared", patched.Area)
	}
}

func TestPingOpen(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/ping", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /ping = %d, want 200", w.Code)
	}
}
