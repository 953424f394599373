package probe

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vainnor/airlab-probe/api"
	"github.com/vainnor/airlab-probe/client"
	"github.com/vainnor/airlab-probe/db"
	"github.com/vainnor/airlab-probe/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var defaultCreds = Credentials{Username: "admin", Password: "admin123"}

var defaultParams = client.ListParams{Skip: 0, Limit: 20}

// recordedRequest is what the mock API saw.
type recordedRequest struct {
	Path          string
	RawQuery      string
	Authorization string
}

type recordingServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func (s *recordingServer) flightRequests() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedRequest
	for _, r := range s.requests {
		if strings.HasPrefix(r.Path, "/api/v1/flights") {
			out = append(out, r)
		}
	}
	return out
}

func newRecordingServer(t *testing.T, flights []types.FlightRecord) *recordingServer {
	t.Helper()
	router := api.NewRouter(api.NewBackend("admin", "admin123", flights))
	s := &recordingServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func newProbe(baseURL string, out *bytes.Buffer, opts ...Option) *Probe {
	return New(baseURL, client.New(baseURL), out, opts...)
}

func failureLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "✗") {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestRun_ListRequestCarriesBearerToken(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())
	baseURL := server.URL + "/api/v1"

	var out bytes.Buffer
	stats, err := newProbe(baseURL, &out).Run(context.Background(), defaultCreds, defaultParams)
	require.NoError(t, err)

	reqs := server.flightRequests()
	require.Len(t, reqs, 1)
	require.True(t, strings.HasPrefix(reqs[0].Authorization, "Bearer "))

	token := strings.TrimPrefix(reqs[0].Authorization, "Bearer ")
	assert.Len(t, token, 64)
	assert.Contains(t, out.String(), "Token: "+token[:20]+"...")
	assert.Equal(t, 200, stats.LoginStatus)
	assert.Equal(t, 200, stats.ListStatus)
	assert.Equal(t, 3, stats.Fetched)
}

func TestRun_LoginFailureSkipsListing(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())

	var out bytes.Buffer
	stats, err := newProbe(server.URL+"/api/v1", &out).Run(context.Background(),
		Credentials{Username: "admin", Password: "wrong"}, defaultParams)

	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindStatus))
	assert.Empty(t, server.flightRequests())
	assert.Equal(t, 401, stats.LoginStatus)

	printed := out.String()
	assert.Contains(t, printed, "Status: 401")
	assert.Equal(t, []string{`✗ Login failed: {"detail":"Incorrect username or password"}`}, failureLines(printed))
	assert.NotContains(t, printed, "2. FLIGHTS API")
}

func TestRun_EmptyPagePrintsNoFlightsOnce(t *testing.T) {
	server := newRecordingServer(t, nil)

	var out bytes.Buffer
	_, err := newProbe(server.URL+"/api/v1", &out).Run(context.Background(), defaultCreds, defaultParams)
	require.NoError(t, err)

	printed := out.String()
	assert.Equal(t, 1, strings.Count(printed, "No flights found"))
	assert.NotContains(t, printed, "FLIGHT #")
	assert.Contains(t, printed, "Number of flights: 0")
	assert.Contains(t, printed, "Page: 1/1")
}

func TestRun_MissingFieldsUsePlaceholders(t *testing.T) {
	server := newRecordingServer(t, []types.FlightRecord{
		{"callsign": "AFR1234", "longitude": nil},
	})

	var out bytes.Buffer
	_, err := newProbe(server.URL+"/api/v1", &out).Run(context.Background(), defaultCreds, defaultParams)
	require.NoError(t, err)

	printed := out.String()
	assert.Contains(t, printed, "FLIGHT #1\n")
	assert.Contains(t, printed, "  ICAO24: N/A\n")
	assert.Contains(t, printed, "  Callsign: AFR1234\n")
	assert.Contains(t, printed, "  Status: N/A\n")
	assert.Contains(t, printed, "    Latitude: NULL\n")
	assert.Contains(t, printed, "    Longitude: NULL\n")
	assert.Contains(t, printed, "    Altitude: NULL m\n")
	assert.Contains(t, printed, "  Assigned stand: Not assigned\n")
}

func TestRun_DefaultQuery(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())

	var out bytes.Buffer
	_, err := newProbe(server.URL+"/api/v1", &out).Run(context.Background(), defaultCreds, defaultParams)
	require.NoError(t, err)

	reqs := server.flightRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "skip=0&limit=20", reqs[0].RawQuery)
	assert.NotContains(t, reqs[0].RawQuery, "status")
	assert.Contains(t, out.String(), "Full URL: "+server.URL+"/api/v1/flights/?skip=0&limit=20\n")
}

func TestRun_TransportFault(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL + "/api/v1"
	server.Close()

	var out bytes.Buffer
	assert.NotPanics(t, func() {
		_, err := newProbe(baseURL, &out).Run(context.Background(), defaultCreds, defaultParams)
		assert.True(t, client.IsKind(err, client.KindTransport))
	})

	lines := failureLines(out.String())
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "✗ Error: "))
	assert.NotContains(t, out.String(), "Status:")
}

func TestRun_TransportFaultLogsNothingAtWarn(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL + "/api/v1"
	server.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)
	c := client.New(baseURL, client.WithLogger(logger))

	var out bytes.Buffer
	_, err := New(baseURL, c, &out, WithLogger(logger)).Run(context.Background(), defaultCreds, defaultParams)
	require.Error(t, err)

	assert.Zero(t, logs.Len())
	assert.Len(t, failureLines(out.String()), 1)
}

func TestRun_ListingFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			_, _ = w.Write([]byte(`{"access_token":"0123456789abcdefghijklmnop"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("database unavailable"))
	}))
	defer server.Close()

	var out bytes.Buffer
	stats, err := newProbe(server.URL, &out).Run(context.Background(), defaultCreds, defaultParams)
	require.Error(t, err)
	assert.Equal(t, 500, stats.ListStatus)

	printed := out.String()
	assert.Contains(t, printed, "Token: 0123456789abcdefghij...\n")
	assert.Contains(t, printed, "Status: 500\n")
	assert.Equal(t, []string{"✗ Error: database unavailable"}, failureLines(printed))
}

func TestRun_MalformedListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			_, _ = w.Write([]byte(`{"access_token":"tok"}`))
			return
		}
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var out bytes.Buffer
	_, err := newProbe(server.URL, &out).Run(context.Background(), defaultCreds, defaultParams)
	assert.True(t, client.IsKind(err, client.KindMalformed))

	lines := failureLines(out.String())
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "error decoding JSON")
}

func TestRun_FilteredSection(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())

	var out bytes.Buffer
	_, err := newProbe(server.URL+"/api/v1", &out).Run(context.Background(), defaultCreds,
		client.ListParams{Limit: 20, Status: "active"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "2. FLIGHTS API - filtered flights")
	assert.Equal(t, "skip=0&limit=20&status=active", server.flightRequests()[0].RawQuery)
	assert.Equal(t, 1, strings.Count(out.String(), "FLIGHT #"))
}

type fakeRecorder struct {
	snaps []db.Snapshot
	err   error
}

func (f *fakeRecorder) RecordSnapshot(_ context.Context, snap db.Snapshot) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.snaps = append(f.snaps, snap)
	return int64(len(f.snaps)), nil
}

func TestRun_RecordsSnapshot(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())
	baseURL := server.URL + "/api/v1"
	rec := &fakeRecorder{}

	var out bytes.Buffer
	stats, err := newProbe(baseURL, &out, WithRecorder(rec)).Run(context.Background(), defaultCreds, defaultParams)
	require.NoError(t, err)

	require.Len(t, rec.snaps, 1)
	snap := rec.snaps[0]
	assert.Equal(t, stats.RunID, snap.Stats.RunID)
	assert.Equal(t, baseURL, snap.BaseURL)
	assert.Equal(t, baseURL+"/flights/?skip=0&limit=20", snap.RequestURL)
	assert.Len(t, snap.Page.Flights, 3)
}

func TestRun_RecorderFailureDoesNotFailRun(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())
	rec := &fakeRecorder{err: errors.New("connection reset")}

	var out bytes.Buffer
	_, err := newProbe(server.URL+"/api/v1", &out, WithRecorder(rec)).Run(context.Background(), defaultCreds, defaultParams)
	assert.NoError(t, err)
	assert.Empty(t, failureLines(out.String()))
}

func TestRun_LoginFailureDoesNotRecord(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())
	rec := &fakeRecorder{}

	var out bytes.Buffer
	_, err := newProbe(server.URL+"/api/v1", &out, WithRecorder(rec)).Run(context.Background(),
		Credentials{Username: "nobody", Password: "x"}, defaultParams)
	require.Error(t, err)
	assert.Empty(t, rec.snaps)
}

func TestFlight(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())

	var out bytes.Buffer
	err := newProbe(server.URL+"/api/v1", &out).Flight(context.Background(), defaultCreds, "3c6444")
	require.NoError(t, err)

	printed := out.String()
	assert.Contains(t, printed, "2. FLIGHT 3c6444")
	assert.Contains(t, printed, "  Callsign: DLH4AB\n")
	assert.Contains(t, printed, "    Altitude: 10668 m\n")
	assert.Contains(t, printed, "  Assigned stand: P12\n")
}

func TestFlight_NotFound(t *testing.T) {
	server := newRecordingServer(t, api.SampleFlights())

	var out bytes.Buffer
	err := newProbe(server.URL+"/api/v1", &out).Flight(context.Background(), defaultCreds, "ffffff")
	require.Error(t, err)
	assert.Equal(t, []string{`✗ Error: {"detail":"Flight not found"}`}, failureLines(out.String()))
}
