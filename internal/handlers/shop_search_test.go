package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createShopNamed(t *testing.T, s *testServer, token, name string, extra fiber.Map) string {
	t.Helper()
	payload := fiber.Map{"name": name}
	for k, v := range extra {
		payload[k] = v
	}
	status, body := s.request(t, http.MethodPost, "/api/shops", token, payload)
	require.Equal(t, http.StatusCreated, status)
	return body["data"].(map[string]interface{})["id"].(string)
}

func TestShopSearchFilters(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "vendor@b.com", "vendor")

	createShopNamed(t, s, token, "Spin Cycle", fiber.Map{"district": "Ernakulam", "state": "Kerala"})
	createShopNamed(t, s, token, "Bubble Bar", fiber.Map{"district": "Kollam", "state": "Kerala"})

	status, body := s.request(t, http.MethodGet, "/api/shops/search?q=Spin", "", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Spin Cycle", data[0].(map[string]interface{})["name"])

	status, body = s.request(t, http.MethodGet, "/api/shops?district=Kollam", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["data"].([]interface{}), 1)

	status, body = s.request(t, http.MethodGet, "/api/shops?state=Kerala", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]interface{}), 2)
}

func TestShopSearchIgnoresCase(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "vendor@b.com", "vendor")

	createShopNamed(t, s, token, "Spin Cycle", fiber.Map{"district": "Ernakulam", "state": "Kerala"})
	createShopNamed(t, s, token, "Bubble Bar", fiber.Map{"district": "Kollam", "state": "Kerala"})

	status, body := s.request(t, http.MethodGet, "/api/shops/search?q=spin", "", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Spin Cycle", data[0].(map[string]interface{})["name"])

	status, body = s.request(t, http.MethodGet, "/api/shops?district=KOLLAM", "", nil)
	require.Equal(t, http.StatusOK, status)
	data = body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Bubble Bar", data[0].(map[string]interface{})["name"])

	status, body = s.request(t, http.MethodGet, "/api/shops?state=kerala", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]interface{}), 2)
}

func TestNearbyShops(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "vendor@b.com", "vendor")

	// Kochi city center vs a shop ~365km away in Bengaluru.
	createShopNamed(t, s, token, "Kochi Wash", fiber.Map{"latitude": 9.9312, "longitude": 76.2673})
	createShopNamed(t, s, token, "Bengaluru Wash", fiber.Map{"latitude": 12.9716, "longitude": 77.5946})
	createShopNamed(t, s, token, "No Coords Wash", nil)

	status, body := s.request(t, http.MethodGet, "/api/shops/nearby?lat=9.93&lng=76.26&radius=25", "", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Kochi Wash", data[0].(map[string]interface{})["name"])

	status, _ = s.request(t, http.MethodGet, "/api/shops/nearby", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestVendorShopList(t *testing.T) {
	s := newTestServer(t)
	vendorToken := s.login(t, "vendor@b.com", "vendor")
	otherToken := s.login(t, "other@b.com", "vendor")

	createShopNamed(t, s, vendorToken, "Mine", nil)
	createShopNamed(t, s, otherToken, "Theirs", nil)

	status, body := s.request(t, http.MethodGet, "/api/vendor/shops", vendorToken, nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Mine", data[0].(map[string]interface{})["name"])
}
