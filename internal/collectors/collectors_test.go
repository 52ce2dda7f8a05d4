package collectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

func sourceConfig(sport, baseURL string) config.SportSourceConfig {
	return config.SportSourceConfig{
		Sport:   sport,
		Enabled: true,
		BaseURL: baseURL,
		APIKey:  "test-key",
	}
}

func TestNBACollectorPlayerStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/player-stats":
			w.Write([]byte(`[{
				"PlayerID": "lebron-james",
				"Name": "LeBron James",
				"Team": "LAL",
				"Opponent": "DEN",
				"HomeOrAway": "HOME",
				"GameDate": "2024-03-10",
				"WinLoss": "W",
				"Points": 28, "Rebounds": 8, "Assists": 11
			}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := NewNBACollector(sourceConfig("nba", server.URL), testClient(), testLogger())
	records, err := c.CollectPlayerStats(context.Background(), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "lebron-james", rec.EntityID)
	assert.Equal(t, "LeBron James", rec.EntityName)
	assert.Equal(t, models.VenueHome, rec.HomeAway)
	assert.True(t, rec.Won())
	assert.Equal(t, 28.0, rec.Stats["points"])
	assert.Equal(t, 47.0, rec.Stats["pra"])

	// Unreported stats stay absent rather than defaulting to zero.
	_, ok := rec.Stats["blocks"]
	assert.False(t, ok)
}

func TestCollectorDisabled(t *testing.T) {
	cfg := sourceConfig("nba", "http://localhost:1")
	cfg.Enabled = false
	c := NewNBACollector(cfg, testClient(), testLogger())

	_, err := c.CollectPlayerStats(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrCollectorDisabled)
	assert.False(t, c.IsEnabled())
}

func TestCollectorAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewNHLCollector(sourceConfig("nhl", server.URL), testClient(), testLogger())
	_, err := c.CollectPlayerStats(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestCollectPropLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/props", r.URL.Path)
		w.Write([]byte(`[
			{"player_name": "LeBron James", "team": "LAL", "stat_type": "points",
			 "line": "24.5", "over_price": "1.91", "book": "prizepicks"},
			{"player_name": "Bad Line", "stat_type": "points", "line": "not-a-number"}
		]`))
	}))
	defer server.Close()

	c := NewNBACollector(sourceConfig("nba", server.URL), testClient(), testLogger())
	lines, err := c.CollectPropLines(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, "LeBron James", lines[0].PlayerName)
	assert.Equal(t, 24.5, lines[0].LineValue())
	require.NotNil(t, lines[0].OverPrice)
	assert.Nil(t, lines[0].UnderPrice)
}

func TestFactory(t *testing.T) {
	f := NewFactory(testLogger())
	client := testClient()

	for _, sport := range models.Sports {
		c, err := f.NewCollector(sourceConfig(string(sport), "http://example.test"), client)
		require.NoError(t, err, sport)
		assert.Equal(t, sport, c.Sport())
	}

	_, err := f.NewCollector(sourceConfig("cricket", "http://example.test"), client)
	assert.ErrorIs(t, err, models.ErrInvalidSport)

	_, err = f.NewCollector(config.SportSourceConfig{Sport: "nba", BaseURL: "http://example.test"}, client)
	assert.Error(t, err, "missing API key should fail")
}

func TestManagerIsolatesFailingSport(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/player-stats", "/team-stats":
			w.Write([]byte(`[]`))
		case "/injuries", "/props":
			w.Write([]byte(`[]`))
		}
	}))
	defer healthy.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	m := NewManager([]Collector{
		NewNBACollector(sourceConfig("nba", healthy.URL), testClient(), testLogger()),
		NewNFLCollector(sourceConfig("nfl", broken.URL), testClient(), testLogger()),
	}, testLogger())

	results := m.CollectAll(context.Background(), time.Now())
	_, nbaOK := results[models.SportNBA]
	_, nflOK := results[models.SportNFL]
	assert.True(t, nbaOK)
	assert.False(t, nflOK)
}

func TestActivePlayers(t *testing.T) {
	records := []models.GameRecord{
		{EntityID: "a", EntityName: "Available"},
		{EntityID: "b", EntityName: "Ruled Out"},
	}
	injuries := []models.InjuryReport{
		{PlayerID: "b", Status: "Out"},
		{PlayerID: "a", Status: "Questionable"},
	}

	active := ActivePlayers(records, injuries)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].EntityID)
}
