package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSendsBearerAndDecodesProductPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/products", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"current_page": 1,
				"per_page":     20,
				"total":        2,
				"data": []map[string]any{
					{"en": map[string]any{"id": 1, "name": "Oil Filter", "price_each": "12.50"}},
					{"en": map[string]any{"id": 2, "name": "Spark Plug", "price_each": "4.99"}},
				},
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "service-token")
	page, err := client.ListProducts(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "Oil Filter", page.Records[0].EN.Name)

	products := NormalizeProducts(page.Records, "en")
	assert.Equal(t, 12.5, products[0].PriceEach)
}

func TestDoAdminTokenOverridesServiceToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"data": []any{}, "total": 0}})
	}))
	defer srv.Close()

	client := New(srv.URL, "service-token")
	_, err := client.AdminListProducts(context.Background(), "admin-token")
	require.NoError(t, err)
}

func TestDoSurfacesBackendMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":{"en":"zone already exists","ar":"..."}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "")
	err := client.DeleteTransport(context.Background(), "tok", 4)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "zone already exists", apiErr.Message)
}

func TestDoGenericMessageForHTMLBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html><body>Bad Gateway</body></html>"))
	}))
	defer srv.Close()

	client := New(srv.URL, "")
	_, err := client.GetProduct(context.Background(), 9)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Request failed (HTTP 502)", apiErr.Message)
}

func TestLoginExtractsToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin@example.com", creds["email"])
		_, _ = w.Write([]byte(`{"data":{"token":"bearer-abc"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "")
	token, err := client.Login(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "bearer-abc", token)
}

func TestMapProductResponseShapes(t *testing.T) {
	t.Parallel()

	bilingual := json.RawMessage(`{"en":{"id":5,"name":"Wiper Blade","price_each":"8"},"ar":{"id":5}}`)
	p := MapProductResponse(bilingual, "en")
	require.NotNil(t, p)
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, "Wiper Blade", p.Name)

	single := json.RawMessage(`{"id":6,"name":"Air Filter","price_each":"15"}`)
	p = MapProductResponse(single, "en")
	require.NotNil(t, p)
	assert.Equal(t, int64(6), p.ID)

	assert.Nil(t, MapProductResponse(nil, "en"))
	assert.Nil(t, MapProductResponse(json.RawMessage(`null`), "en"))
	assert.Nil(t, MapProductResponse(json.RawMessage(`"ok"`), "en"))
}
