package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tiktok-product-api/internal/types"
)

func TestNewTikTokAdapter(t *testing.T) {
	config := types.DefaultConfig()
	adapter := NewTikTokAdapter(config, logrus.New())
	defer adapter.Close()

	assert.Equal(t, "shop.tiktok.com", adapter.GetStoreName())
	assert.Equal(t, config, adapter.Config())
	assert.NotNil(t, adapter.httpClient)
	assert.NotNil(t, adapter.browserClient)
}

func TestTikTokAdapter_URLs(t *testing.T) {
	config := types.DefaultConfig()
	config.BaseURL = "https://shop.tiktok.com/"
	adapter := NewTikTokAdapter(config, logrus.New())
	defer adapter.Close()

	req := types.NewFetchRequest("1731434312432060118", "US", "en")

	assert.Equal(t,
		"https://shop.tiktok.com/view/product/1731434312432060118?__loader=(shop$)/(pdp)/(name$)/(id)/page&__ssrDirect=true&region=US&locale=en",
		adapter.SSRURL(req))
	assert.Equal(t,
		"https://shop.tiktok.com/view/product/1731434312432060118?region=US&locale=en",
		adapter.PageURL(req))
}

func TestTikTokAdapter_URLsEscapeIdentifier(t *testing.T) {
	adapter := NewTikTokAdapter(types.DefaultConfig(), logrus.New())
	defer adapter.Close()

	req := types.NewFetchRequest("a/b?c", "VN", "vi")

	assert.Equal(t, "https://shop.tiktok.com/view/product/a%2Fb%3Fc?region=VN&locale=vi", adapter.PageURL(req))
}

func TestTikTokAdapter_FetchSSRAndPage(t *testing.T) {
	var paths []string
	var queries []map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		queries = append(queries, r.URL.Query())
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	config := types.DefaultConfig()
	config.BaseURL = server.URL
	adapter := NewTikTokAdapter(config, logrus.New())
	defer adapter.Close()

	req := types.NewFetchRequest("123", "", "")

	_, err := adapter.FetchSSR(context.Background(), req)
	require.NoError(t, err)
	_, err = adapter.FetchPage(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, "/view/product/123", paths[0])
	assert.Equal(t, "(shop$)/(pdp)/(name$)/(id)/page", queries[0]["__loader"][0])
	assert.Equal(t, "true", queries[0]["__ssrDirect"][0])
	assert.Equal(t, "VN", queries[0]["region"][0])
	assert.Equal(t, "/view/product/123", paths[1])
	assert.NotContains(t, queries[1], "__loader")
	assert.Equal(t, "vi", queries[1]["locale"][0])
}
