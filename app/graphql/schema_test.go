package graphql_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appgraphql "github.com/sudeviagro/backoffice/app/graphql"
	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/internal/testdb"
	"github.com/sudeviagro/backoffice/pkg/event"
	"github.com/sudeviagro/backoffice/pkg/graphql"
)

func post(t *testing.T, h http.Handler, query string) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"query": query})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Nil(t, out["errors"], rec.Body.String())
	return out["data"].(map[string]any)
}

func TestCatalogQueries(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	products := services.NewProductService(event.NewDispatcher())
	jobs := services.NewJobService()

	price := 89.0
	p, err := products.Create(ctx, services.ProductInput{Name: "Garam Masala", Category: models.CategorySpices, Price: &price})
	require.NoError(t, err)
	_, err = jobs.Create(ctx, services.JobOpeningInput{Title: "Sales Officer", Requirements: []string{"Hindi", "Telugu"}})
	require.NoError(t, err)

	schema, err := appgraphql.NewSchema(products, jobs)
	require.NoError(t, err)
	h := graphql.Handler(schema)

	data := post(t, h, `{ products(category: "spices") { id name price } jobOpenings { title requirements } }`)
	list := data["products"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, p.ID, first["id"])
	assert.Equal(t, 89.0, first["price"])

	openings := data["jobOpenings"].([]any)
	require.Len(t, openings, 1)
	assert.Equal(t, []any{"Hindi", "Telugu"}, openings[0].(map[string]any)["requirements"])

	data = post(t, h, `{ product(id: "`+p.ID+`") { name category } }`)
	assert.Equal(t, map[string]any{"name": "Garam Masala", "category": "spices"}, data["product"])

	data = post(t, h, `{ product(id: "missing") { name } }`)
	assert.Nil(t, data["product"])
}
