package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanobs/bog/internal/api"
	"github.com/oceanobs/bog/internal/models"
)

const buoy133Details = `{
	"buoy_id": 133,
	"last_updated": 1700000000,
	"latitude": 41.9,
	"longitude": -87.6,
	"battery": 88.5,
	"system_status": "operational",
	"series": ["wave_height", "wind_speed"]
}`

const buoy133Reports = `{
	"series": {
		"series": {
			"wave_height": [[1, 0.5], [2, 0.6]],
			"wind_speed": [[1, 10], [3, 12]]
		}
	}
}`

func newTestClient(t *testing.T, f *fakeService) *api.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	session, err := api.NewSession(
		context.Background(),
		srv.URL,
		api.Credentials{Username: "observer", Password: "hunter2"},
		srv.Client(),
		quietLogger(),
	)
	require.NoError(t, err)
	return api.NewClient(session, srv.Client(), quietLogger())
}

func TestCurrentStatus(t *testing.T) {
	f := newFakeService(133)
	f.details[133] = buoy133Details

	client := newTestClient(t, f)
	status, err := client.CurrentStatus(context.Background(), 133, true)

	require.NoError(t, err)
	assert.Equal(t, &models.BuoyStatus{
		BuoyID:       133,
		LastUpdated:  1700000000,
		Latitude:     41.9,
		Longitude:    -87.6,
		Battery:      88.5,
		SystemStatus: "operational",
		Series:       []string{"wave_height", "wind_speed"},
	}, status)
}

func TestCurrentStatusScopeCheckIsLocal(t *testing.T) {
	f := newFakeService(133)
	client := newTestClient(t, f)

	_, err := client.CurrentStatus(context.Background(), 999, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrScope)
	assert.Zero(t, f.detailCalls, "scope rejection must not issue a network call")
}

func TestCurrentStatusSkipsCheckWhenUnenforced(t *testing.T) {
	f := newFakeService(133)
	f.details[999] = `{"buoy_id": 999, "series": []}`

	client := newTestClient(t, f)
	status, err := client.CurrentStatus(context.Background(), 999, false)

	require.NoError(t, err)
	assert.Equal(t, 999, status.BuoyID)
}

func TestCurrentStatusTransportFailure(t *testing.T) {
	f := newFakeService(133)
	f.failDetails[133] = http.StatusBadGateway

	client := newTestClient(t, f)
	_, err := client.CurrentStatus(context.Background(), 133, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrStatusFetch)

	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "status unavailable")
}

func TestHistoricalSeriesDefaultsToAllAvailable(t *testing.T) {
	f := newFakeService(133)
	f.details[133] = buoy133Details
	f.reports[133] = buoy133Reports

	client := newTestClient(t, f)
	series, order, err := client.HistoricalSeries(context.Background(), 133, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"wave_height", "wind_speed"}, order)
	assert.Equal(t, "wave_height,wind_speed", f.lastSeriesParam, "variables must go out as one comma-joined request")
	assert.Equal(t, 1, f.reportCalls)
	assert.Equal(t, []models.SeriesPoint{{Time: 1, Value: 0.5}, {Time: 2, Value: 0.6}}, series["wave_height"])
	assert.Equal(t, []models.SeriesPoint{{Time: 1, Value: 10}, {Time: 3, Value: 12}}, series["wind_speed"])
}

func TestHistoricalSeriesRejectsUnknownVariable(t *testing.T) {
	f := newFakeService(133)
	f.details[133] = buoy133Details

	client := newTestClient(t, f)
	_, _, err := client.HistoricalSeries(context.Background(), 133, []string{"wave_height", "salinity"})

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrInvalidVariable)
	assert.Contains(t, err.Error(), "salinity")
	assert.Zero(t, f.reportCalls, "validation failure must precede the historical request")
}

func TestHistoricalSeriesAlwaysEnforcesScope(t *testing.T) {
	f := newFakeService(133)
	client := newTestClient(t, f)

	_, _, err := client.HistoricalSeries(context.Background(), 999, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrScope)
	assert.Zero(t, f.detailCalls)
	assert.Zero(t, f.reportCalls)
}

func TestHistoricalSeriesTransportFailure(t *testing.T) {
	f := newFakeService(133)
	f.details[133] = buoy133Details
	// reports payload deliberately missing -> 404

	client := newTestClient(t, f)
	_, _, err := client.HistoricalSeries(context.Background(), 133, []string{"wave_height"})

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrHistoricalFetch)

	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
}
