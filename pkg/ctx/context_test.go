package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/sudeviagro/backoffice/pkg/ctx"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func run(method, target, body string, h appctx.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	appctx.Wrap(h)(rec, req)
	return rec
}

type leadInput struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestSuccessEnvelope(t *testing.T) {
	rec := run(http.MethodGet, "/", "", func(c *appctx.Context) {
		c.Success(map[string]any{"id": "p-1"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, 200, env.Status)
	assert.JSONEq(t, `{"id":"p-1"}`, string(env.Data))
}

func TestBindJSONValid(t *testing.T) {
	var got leadInput
	rec := run(http.MethodPost, "/", `{"name":"Asha","email":"asha@example.com"}`, func(c *appctx.Context) {
		if c.BindJSON(&got) {
			c.Created(got)
		}
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Asha", got.Name)
}

func TestBindJSONValidationFailure(t *testing.T) {
	rec := run(http.MethodPost, "/", `{"name":"","email":"nope"}`, func(c *appctx.Context) {
		var in leadInput
		assert.False(t, c.BindJSON(&in))
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "email")
}

func TestBindJSONMalformed(t *testing.T) {
	rec := run(http.MethodPost, "/", `{"name":`, func(c *appctx.Context) {
		var in leadInput
		assert.False(t, c.BindJSON(&in))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/leads/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			c.NotFound()
			return
		}
		c.Success(id)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", string(decode(t, rec).Data))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueryHelpers(t *testing.T) {
	run(http.MethodGet, "/?page=3&type=job&bad=x", "", func(c *appctx.Context) {
		assert.Equal(t, 3, c.QueryInt("page", 1))
		assert.Equal(t, 20, c.QueryInt("bad", 20))
		assert.Equal(t, "job", c.Query("type"))
		assert.Equal(t, "new", c.DefaultQuery("status", "new"))
		c.NoContent()
	})
}

func TestPaginated(t *testing.T) {
	rec := run(http.MethodGet, "/", "", func(c *appctx.Context) {
		c.Paginated([]string{"a"}, orm.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1})
	})
	assert.JSONEq(t, `{"items":["a"],"pagination":{"page":1,"limit":20,"total":1,"total_pages":1}}`,
		string(decode(t, rec).Data))
}

func TestAttachment(t *testing.T) {
	rec := run(http.MethodGet, "/", "", func(c *appctx.Context) {
		c.Attachment("google-merchant-feed.xml", "application/xml", []byte("<rss/>"))
	})
	assert.Equal(t, `attachment; filename="google-merchant-feed.xml"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "<rss/>", rec.Body.String())
}

func TestClientIP(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, "1.2.3.4", c.ClientIP())
	})(rec, req)
}
