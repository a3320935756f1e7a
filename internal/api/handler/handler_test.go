package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"denuncias/backend/internal/api/handler"
	"denuncias/backend/internal/complaint"
	"denuncias/backend/internal/localization"
	"denuncias/backend/internal/migrations"
	"denuncias/backend/internal/models"
	"denuncias/backend/internal/storage"
	"denuncias/backend/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, register handler.ComplaintRegister) *gin.Engine {
	t.Helper()
	messages, err := localization.NewLocalizer(web.Locales(), web.LocalesDir)
	require.NoError(t, err)
	r, err := handler.NewRouter(handler.NewHandler(register, messages))
	require.NoError(t, err)
	return r
}

func newSQLiteRegister(t *testing.T) *complaint.Service {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	_, err = migrations.New(db).Upgrade()
	require.NoError(t, err)
	return complaint.NewService(storage.NewStorageService(db, nil))
}

func do(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexAndStatic(t *testing.T) {
	r := newTestRouter(t, newSQLiteRegister(t))

	w := do(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/denuncias"`)

	w = do(r, http.MethodGet, "/static/script.js", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DOMContentLoaded")
}

func TestCreateAndList(t *testing.T) {
	register := newSQLiteRegister(t)
	r := newTestRouter(t, register)

	w := do(r, http.MethodPost, "/denuncias", url.Values{"nombre": {"Alice"}, "lugar": {"Park"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/denuncias", w.Header().Get("Location"))

	w = do(r, http.MethodPost, "/denuncias", url.Values{"nombre": {""}, "lugar": {"Lake"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = do(r, http.MethodGet, "/denuncias", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "Park")
	assert.Contains(t, body, models.AnonymousName)
	assert.Contains(t, body, "Lake")

	all, err := register.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, c := range all {
		assert.Equal(t, c.ID, c.Number)
	}
}

func TestCreate_InvalidForm(t *testing.T) {
	register := newSQLiteRegister(t)
	r := newTestRouter(t, register)

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "missing lugar", form: url.Values{"nombre": {"Alice"}}},
		{name: "blank lugar", form: url.Values{"nombre": {"Alice"}, "lugar": {"   "}}},
		{name: "lugar too long", form: url.Values{"lugar": {strings.Repeat("x", 201)}}},
		{name: "nombre too long", form: url.Values{"nombre": {strings.Repeat("x", 101)}, "lugar": {"Park"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/denuncias", tt.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	all, err := register.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEditFlow(t *testing.T) {
	register := newSQLiteRegister(t)
	r := newTestRouter(t, register)
	res, err := register.Create(context.Background(), "Alice", "Park")
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/editar/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Alice"`)

	w = do(r, http.MethodPost, "/editar/1", url.Values{"nombre": {"Bob"}, "lugar": {"Lake"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	stored, err := register.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", stored.Name)
	assert.Equal(t, "Lake", stored.Place)
	assert.Equal(t, res.Complaint.Number, stored.Number)
}

func TestEdit_NotFound(t *testing.T) {
	r := newTestRouter(t, newSQLiteRegister(t))

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/editar/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/editar/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/editar/999", url.Values{"lugar": {"Lake"}}).Code)
}

func TestDeleteTwice(t *testing.T) {
	register := newSQLiteRegister(t)
	r := newTestRouter(t, register)
	_, err := register.Create(context.Background(), "Alice", "Park")
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/eliminar/1", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/denuncias", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/eliminar/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the app keeps serving after the second delete
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/denuncias", nil).Code)
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter(t, newSQLiteRegister(t))

	w := do(r, http.MethodGet, "/denuncias", nil)
	assert.NotEmpty(t, w.Header().Get(handler.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/denuncias", nil)
	req.Header.Set(handler.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(handler.RequestIDHeader))
}

// stubRegister returns canned results for the paths a real database
// cannot easily reach.
type stubRegister struct {
	result complaint.Result
	err    error
}

func (s stubRegister) Create(context.Context, string, string) (complaint.Result, error) {
	return s.result, s.err
}

func (s stubRegister) List(context.Context) ([]models.Complaint, error) {
	return nil, s.err
}

func (s stubRegister) Get(context.Context, int64) (*models.Complaint, error) {
	return nil, s.err
}

func (s stubRegister) Update(context.Context, int64, string, string) (*models.Complaint, error) {
	return nil, s.err
}

func (s stubRegister) Delete(context.Context, int64) error {
	return s.err
}

func TestCreate_AbandonedStillRedirects(t *testing.T) {
	r := newTestRouter(t, stubRegister{result: complaint.Result{Outcome: complaint.OutcomeAbandoned}})

	w := do(r, http.MethodPost, "/denuncias", url.Values{"lugar": {"Park"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestCreate_PartiallyFinalizedRedirects(t *testing.T) {
	partial := &models.Complaint{ID: 3, Number: -1762646400000, Name: "Alice", Place: "Park"}
	r := newTestRouter(t, stubRegister{result: complaint.Result{Complaint: partial, Outcome: complaint.OutcomePartiallyFinalized}})

	w := do(r, http.MethodPost, "/denuncias", url.Values{"lugar": {"Park"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestStorageFailureIs500(t *testing.T) {
	r := newTestRouter(t, stubRegister{err: errors.New("database is locked")})

	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/denuncias", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodPost, "/denuncias", url.Values{"lugar": {"Park"}}).Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/eliminar/1", nil).Code)
}

func TestErrorMessagesFollowAcceptLanguage(t *testing.T) {
	r := newTestRouter(t, newSQLiteRegister(t))

	w := do(r, http.MethodGet, "/editar/999", nil)
	assert.Contains(t, w.Body.String(), "La denuncia no existe.")

	req := httptest.NewRequest(http.MethodGet, "/editar/999", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Complaint not found.")
}

func TestInvalidComplaintMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "blank place", err: complaint.ErrPlaceRequired, want: "El lugar es obligatorio."},
		{
			name: "name too long",
			err:  fmt.Errorf("%w: name longer than 100 characters", complaint.ErrInvalidComplaint),
			want: "el nombre, 100.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, stubRegister{err: tt.err})

			created := do(r, http.MethodPost, "/denuncias", url.Values{"lugar": {"Park"}})
			updated := do(r, http.MethodPost, "/editar/1", url.Values{"lugar": {"Park"}})

			for _, w := range []*httptest.ResponseRecorder{created, updated} {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), tt.want)
			}
		})
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	r := newTestRouter(t, newSQLiteRegister(t))

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/nope", nil).Code)
}
