package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchProductsBareArray(t *testing.T) {
	srv := serve(t, `[{"id":"p1","name":"Cleanser","price":100,"stock_quantity":7}]`)
	c := NewClient(nil)

	products, err := c.FetchProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, 7, products[0].StockQuantity)
}

func TestFetchProductsWrappedObject(t *testing.T) {
	srv := serve(t, `{"products":[{"id":"p1","price":"12.5"}]}`)
	c := NewClient(nil)

	products, err := c.FetchProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 12.5, products[0].Price, "string numbers normalize")
}

func TestFetchProductsItemsWrapper(t *testing.T) {
	srv := serve(t, `{"items":[{"sku":"SKU-1","title":"Serum"}]}`)
	c := NewClient(nil)

	products, err := c.FetchProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SKU-1", products[0].SKU)
	assert.Equal(t, "Serum", products[0].Name)
}

func TestFetchBrands(t *testing.T) {
	srv := serve(t, `{"brands":[{"name":"Acme"},{"name":""},{"noname":1}]}`)
	c := NewClient(nil)

	brands, err := c.FetchBrands(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, brands)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(nil)
	_, err := c.FetchProducts(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetchEmptyURL(t *testing.T) {
	c := NewClient(nil)
	_, err := c.FetchProducts(context.Background(), "")
	require.Error(t, err)
}

func TestFetchMalformedDocument(t *testing.T) {
	srv := serve(t, `{"something_else": true}`)
	c := NewClient(nil)

	_, err := c.FetchProducts(context.Background(), srv.URL)
	require.Error(t, err)
}
