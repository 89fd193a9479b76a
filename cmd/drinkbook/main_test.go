package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/drinkbook/client/config"
	"github.com/drinkbook/client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// remoteStub serves the handful of drink service endpoints the commands use
type remoteStub struct {
	mu        sync.Mutex
	failing   bool
	generated []string
}

func (s *remoteStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/drinks":
		json.NewEncoder(w).Encode([]domain.Recipe{
			{ID: "2", Name: "virgin colada", Type: domain.DrinkTypeMocktail, Instructions: []string{"Blend"}},
			{ID: "1", Name: "Mojito", AlcoholContent: true, Type: domain.DrinkTypeCocktail, Instructions: []string{"Muddle"}},
			{ID: "3", Name: "Americano", AlcoholContent: true, Type: domain.DrinkTypeCocktail, Instructions: []string{"Stir"}},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/drinks/random":
		json.NewEncoder(w).Encode(domain.Recipe{
			ID: "1", Name: "Mojito", AlcoholContent: true, Type: domain.DrinkTypeCocktail,
			Ingredients: []domain.Ingredient{
				{Name: "White Rum", Amount: 50, Unit: domain.UnitMl},
				{Name: "Soda", Unit: domain.UnitTopUp},
			},
			Instructions: []string{"Muddle", "Top with soda"},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/drinks/generate":
		var body struct {
			Ingredients []string `json:"ingredients"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.generated = body.Ingredients
		json.NewEncoder(w).Encode(domain.Recipe{ID: "g1", Name: "Garden Fizz", Type: domain.DrinkTypeMocktail, Instructions: []string{"Shake"}})
	case r.Method == http.MethodGet && r.URL.Path == "/drinks/images":
		if r.URL.Query().Get("page") == "2" {
			json.NewEncoder(w).Encode([]string{"https://images.example.com/page2.jpeg"})
			return
		}
		json.NewEncoder(w).Encode([]int64{1264000})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *remoteStub) setFailing(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = fail
}

// runCLI executes the root command against a stubbed remote and returns stdout
func runCLI(t *testing.T, remote *remoteStub, args ...string) (string, error) {
	t.Helper()

	srv := httptest.NewServer(remote)
	t.Cleanup(srv.Close)

	originalDir, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(originalDir) })
	t.Setenv("DRINKBOOK_REMOTE_BASE_URL", srv.URL)
	t.Setenv("DRINKBOOK_REMOTE_MAX_RETRIES", "1")
	t.Setenv("DRINKBOOK_SERVER_ENVIRONMENT", "test")
	t.Setenv("DRINKBOOK_SEARCH_DEBOUNCE", "10ms")
	t.Setenv("DRINKBOOK_LOG_LEVEL", "error")

	configFile, logLevel = "", ""
	listSearch, listAlcohol, listType = "", "all", ""
	imagesPage = 1

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := runCLI(t, &remoteStub{}, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "Americano")
	assert.Contains(t, lines[2], "Mojito")
	assert.Contains(t, lines[3], "virgin colada")
}

func TestListCommand_Filters(t *testing.T) {
	out, err := runCLI(t, &remoteStub{}, "list", "--alcohol", "non-alcoholic")
	require.NoError(t, err)
	assert.Contains(t, out, "virgin colada")
	assert.NotContains(t, out, "Mojito")

	out, err = runCLI(t, &remoteStub{}, "list", "--search", "moj")
	require.NoError(t, err)
	assert.Contains(t, out, "Mojito")
	assert.NotContains(t, out, "Americano")
}

func TestListCommand_InvalidAlcohol(t *testing.T) {
	_, err := runCLI(t, &remoteStub{}, "list", "--alcohol", "some")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListCommand_RemoteFailure(t *testing.T) {
	remote := &remoteStub{}
	remote.setFailing(true)

	_, err := runCLI(t, remote, "list")
	require.Error(t, err)
	assert.Equal(t, "Error fetching drinks", err.Error())
}

func TestRandomCommand(t *testing.T) {
	out, err := runCLI(t, &remoteStub{}, "random")
	require.NoError(t, err)
	assert.Contains(t, out, "Mojito (Cocktail)")
	assert.Contains(t, out, "White Rum, 50 ml")
	assert.Contains(t, out, "Soda, top up")
	assert.Contains(t, out, "2. Top with soda")
}

func TestGenerateCommand(t *testing.T) {
	remote := &remoteStub{}
	out, err := runCLI(t, remote, "generate", "Mint", "Lime", "Soda")
	require.NoError(t, err)
	assert.Contains(t, out, "Garden Fizz")
	assert.Equal(t, []string{"Mint", "Lime", "Soda"}, remote.generated)
}

func TestGenerateCommand_TooFewIngredients(t *testing.T) {
	remote := &remoteStub{}
	_, err := runCLI(t, remote, "generate", "Mint", "Lime")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, remote.generated)
}

func TestGenerateCommand_RemoteFailure(t *testing.T) {
	remote := &remoteStub{}
	remote.setFailing(true)

	_, err := runCLI(t, remote, "generate", "Mint", "Lime", "Soda")
	require.Error(t, err)
	assert.Equal(t, "Failed to generate a drink. Please try again!", err.Error())
}

func TestImagesCommand(t *testing.T) {
	out, err := runCLI(t, &remoteStub{}, "images", "mojito")
	require.NoError(t, err)
	assert.Equal(t,
		"https://images.pexels.com/photos/1264000/pexels-photo-1264000.jpeg?auto=compress&cs=tinysrgb&w=500&h=500\n",
		out)

	out, err = runCLI(t, &remoteStub{}, "images", "mojito", "--page", "2")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/page2.jpeg\n", out)
}

func TestImagesCommand_PageOutOfRange(t *testing.T) {
	_, err := runCLI(t, &remoteStub{}, "images", "mojito", "--page", "9")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestImagesCommand_RemoteFailure(t *testing.T) {
	remote := &remoteStub{}
	remote.setFailing(true)

	_, err := runCLI(t, remote, "images", "mojito")
	require.Error(t, err)
	assert.Equal(t, "Looks like our image mixer is out of juice. Try searching again!", err.Error())
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, &remoteStub{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "drinkbook "+Version+"\n", out)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		want        zapcore.Level
		wantErr     bool
	}{
		{name: "production info", environment: "production", level: "info", want: zapcore.InfoLevel},
		{name: "development debug", environment: "development", level: "debug", want: zapcore.DebugLevel},
		{name: "invalid level", environment: "production", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &config.Config{
				Server: config.ServerConfig{Environment: tt.environment},
				Log:    config.LogConfig{Level: tt.level},
			}
			l, err := newLogger(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			assert.False(t, l.Core().Enabled(tt.want-1))
		})
	}
}

func TestOpenApp_LoadsInBackground(t *testing.T) {
	srv := httptest.NewServer(&remoteStub{})
	t.Cleanup(srv.Close)

	c := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Remote: config.RemoteConfig{BaseURL: srv.URL, Timeout: time.Second, RequestsPerSecond: 100, Burst: 10, MaxRetries: 1},
		Search: config.SearchConfig{Debounce: 10 * time.Millisecond, PageSize: 6, MaxPage: 4, Locale: "en"},
		Lookup: config.LookupConfig{Timeout: time.Second},
	}

	a := openApp(context.Background(), c, zap.NewNop())
	t.Cleanup(a.close)

	require.Eventually(t, a.store.Loaded, time.Second, 5*time.Millisecond)
	drinks := a.store.Drinks()
	require.Len(t, drinks, 3)
	assert.Equal(t, "Americano", drinks[0].Name)

	assert.False(t, newApp(c, zap.NewNop()).store.Loaded())
}
