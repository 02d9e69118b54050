package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/app"
	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/services/export"
)

const testCSV = `UY,Ext Type,Broker Name,Cedant Name,Country Name,Inception Year,Inception Quarter,Gross UW Prem,Gross Actual Acq.,Gross Paid Claims,Gross OS Loss
2020,Treaty,Aon,ABC Re,Kenya,2020,Q1,1000,200,100,50
2020,Treaty,Marsh,ABC Re,Ghana,2020,Q2,500,50,0,0
2021,Facultative,Aon,Zeta Re,Kenya,2021,Q3,250,25,0,0
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "policies.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))

	cfg := common.NewDefaultConfig()
	cfg.Source.Path = path
	cfg.Storage.Badger.InMemory = true

	application, err := app.New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })

	ts := httptest.NewServer(New(application).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRoutes_Policies(t *testing.T) {
	ts := newTestServer(t)

	status, body := getJSON(t, ts, "/api/policies/load")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3.0, body["count"])

	status, body = getJSON(t, ts, "/api/policies?broker=aon")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["total"])

	status, body = getJSON(t, ts, "/api/policies?colour=red")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", body["status"])

	status, body = getJSON(t, ts, "/api/dimensions")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "dimensions")
}

func TestRoutes_Aggregation(t *testing.T) {
	ts := newTestServer(t)

	status, body := getJSON(t, ts, "/api/aggregate/periods?granularity=quarterly&year=2020")
	require.Equal(t, http.StatusOK, status)
	buckets, ok := body["buckets"].([]interface{})
	require.True(t, ok)
	assert.Len(t, buckets, 4)

	status, _ = getJSON(t, ts, "/api/aggregate/periods?granularity=weekly")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = getJSON(t, ts, "/api/aggregate/dimension/broker?top=1")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["truncated"])

	status, _ = getJSON(t, ts, "/api/aggregate/dimension/")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = getJSON(t, ts, "/api/aggregate/dimension/colour")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRoutes_Export(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/export/dimension/broker.xlsx")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))

	resp, err = http.Get(ts.URL + "/api/export/periods.xlsx?granularity=yearly")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, _ := getJSON(t, ts, "/api/export/dimension/broker.csv")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoutes_Dataset(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/dataset/reload", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := getJSON(t, ts, "/api/dataset/runs")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["count"], "startup load plus forced reload")

	status, body = getJSON(t, ts, "/api/status")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "dataset")
}

func TestMiddleware(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/version", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))

	req, err = http.NewRequest(http.MethodOptions, ts.URL+"/api/policies", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := getJSON(t, ts, "/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "/nope", body["path"])
}
