package todo

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chronos-hq/chronos/internal/auth"
	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/http/middleware"
	"github.com/chronos-hq/chronos/internal/repository"
	"github.com/chronos-hq/chronos/internal/task"
)

// newTestRouter mounts the handler behind a chi router that injects the
// given identity, mirroring what the auth middleware does in production.
func newTestRouter(t *testing.T, identity domain.Identity) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := task.NewTodoService(
		repository.NewTodosRepository(db),
		repository.NewCategoriesRepository(db),
		auth.NewMembershipVerifier(repository.NewUsersRepository(db)),
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), identity)))
		})
	})
	r.Post("/api/todos", h.Create)
	r.Get("/api/todos", h.List)
	r.Get("/api/todos/{id}", h.Get)
	r.Put("/api/todos/{id}", h.Update)
	r.Delete("/api/todos/{id}", h.Delete)
	return r, mock
}

func testIdentity(role domain.Role) domain.Identity {
	return domain.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: role}
}

func TestCreateRequiresIsCompleted(t *testing.T) {
	r, mock := newTestRouter(t, testIdentity(domain.RoleMember))

	// is_completed is a required key; omitting it is a validation error
	// before any store access.
	body := `{"title":"write report","priority":"medium"}`
	req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors []struct {
			Path string `json:"path"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "is_completed", resp.Errors[0].Path)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	r, mock := newTestRouter(t, testIdentity(domain.RoleMember))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND tenant_id = $2)`)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO todos`)).WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"title":"write report","is_completed":false,"priority":"medium"}`
	req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Todo    struct {
			Title       string  `json:"title"`
			IsCompleted bool    `json:"is_completed"`
			CompletedAt *string `json:"completed_at"`
		} `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "write report", resp.Todo.Title)
	require.False(t, resp.Todo.IsCompleted)
	require.Nil(t, resp.Todo.CompletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmpty(t *testing.T) {
	r, mock := newTestRouter(t, testIdentity(domain.RoleMember))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM todos`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "tenant_id", "category_id", "title", "description",
			"is_completed", "due_date", "completed_at", "priority", "created_at", "updated_at",
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// An empty list serializes as [], never null.
	require.Contains(t, rec.Body.String(), `"todos":[]`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMalformedID(t *testing.T) {
	r, mock := newTestRouter(t, testIdentity(domain.RoleMember))

	// An unparseable id cannot match any todo, so it reads as absence.
	req := httptest.NewRequest(http.MethodGet, "/api/todos/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOtherOwnersTodo(t *testing.T) {
	r, mock := newTestRouter(t, testIdentity(domain.RoleMember))

	// A todo outside the caller's owner scope is indistinguishable from a
	// missing one.
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND tenant_id = $2 AND user_id = $3`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "tenant_id", "category_id", "title", "description",
			"is_completed", "due_date", "completed_at", "priority", "created_at", "updated_at",
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/todos/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteForbiddenForMember(t *testing.T) {
	r, mock := newTestRouter(t, testIdentity(domain.RoleMember))

	req := httptest.NewRequest(http.MethodDelete, "/api/todos/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	identity := testIdentity(domain.RoleAdmin)
	r, mock := newTestRouter(t, identity)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = $1 AND tenant_id = $2`)).
		WithArgs(id, identity.TenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/todos/"+id.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "todo deleted")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePartial(t *testing.T) {
	identity := testIdentity(domain.RoleMember)
	r, mock := newTestRouter(t, identity)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND tenant_id = $2 AND user_id = $3`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "tenant_id", "category_id", "title", "description",
			"is_completed", "due_date", "completed_at", "priority", "created_at", "updated_at",
		}).AddRow(id, identity.UserID, identity.TenantID, nil, "write report", "draft pending",
			false, nil, nil, "medium", now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE todos`)).WillReturnResult(sqlmock.NewResult(0, 1))

	// Only is_completed is present; description stays, due_date stays.
	body := `{"is_completed":true}`
	req := httptest.NewRequest(http.MethodPut, "/api/todos/"+id.String(), strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Todo struct {
			IsCompleted bool    `json:"is_completed"`
			CompletedAt *string `json:"completed_at"`
			Description *string `json:"description"`
		} `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Todo.IsCompleted)
	require.NotNil(t, resp.Todo.CompletedAt)
	require.NotNil(t, resp.Todo.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}
