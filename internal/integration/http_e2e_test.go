//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "pokemon_review/internal/adapters/http_server"
	redisad "pokemon_review/internal/adapters/redis"
	"pokemon_review/internal/app"
	mysqlrepo "pokemon_review/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sqlx.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sqlx.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=pokemon",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/pokemon?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sqlx.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = mysqlrepo.Open(context.Background(), dsn)
		return e
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func call(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

type pokemonJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type reviewJSON struct {
	ID        int64  `json:"id"`
	PokemonID int64  `json:"pokemonId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Stars     int    `json:"stars"`
}

// ---------- the test ----------

func TestHTTP_EndToEnd_PokemonReviews(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)

	mr := miniredis.RunT(t)
	locker := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = locker.Close() })

	srv := server.New(server.Options{})
	srv.MountHandlers(&server.Handlers{
		Pokemon:         app.NewPokemonService(repo, locker, 5*time.Second),
		Reviews:         app.NewReviewService(repo, repo),
		DefaultPageSize: 10,
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()
	api := ts.URL + "/api/pokemon"

	// create + duplicate
	var created struct {
		Status int         `json:"status"`
		Data   pokemonJSON `json:"data"`
	}
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, api+"/create", map[string]string{"name": "Pikachu", "type": "electric"}, &created))
	pika := created.Data
	require.NotZero(t, pika.ID)
	assert.Equal(t, http.StatusConflict, call(t, http.MethodPost, api+"/create", map[string]string{"name": "Pikachu", "type": "electric"}, nil))
	assert.Empty(t, mr.Keys(), "reservation should be released after create")

	// lookups
	var got pokemonJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, fmt.Sprintf("%s/%d", api, pika.ID), nil, &got))
	assert.Equal(t, pika, got)
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, api+"/99999", nil, nil))

	// paging over 15 rows
	for i := 0; i < 14; i++ {
		require.Equal(t, http.StatusCreated, call(t, http.MethodPost, api+"/create", map[string]string{"name": fmt.Sprintf("mon-%02d", i), "type": "normal"}, nil))
	}
	var page struct {
		Content       []pokemonJSON `json:"content"`
		TotalElements int64         `json:"totalElements"`
		TotalPages    int           `json:"totalPages"`
		Last          bool          `json:"last"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, api+"?pageNo=1&pageSize=10", nil, &page))
	assert.Len(t, page.Content, 5)
	assert.Equal(t, int64(15), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Last)

	// reviews
	other := page.Content[0]
	var rvResp struct {
		Data reviewJSON `json:"data"`
	}
	reviews := fmt.Sprintf("%s/%d/reviews", api, pika.ID)
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, reviews, map[string]any{"title": "Great", "content": "Fun", "stars": 5}, &rvResp))
	rv := rvResp.Data

	foreign := fmt.Sprintf("%s/%d/reviews/%d", api, other.ID, rv.ID)
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, foreign, nil, nil))

	own := fmt.Sprintf("%s/%d", reviews, rv.ID)
	require.Equal(t, http.StatusOK, call(t, http.MethodPut, own, map[string]any{"title": "Greatest", "content": "Fun", "stars": 4}, nil))
	var gotRv reviewJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, own, nil, &gotRv))
	assert.Equal(t, "Greatest", gotRv.Title)
	assert.Equal(t, 4, gotRv.Stars)
	assert.Equal(t, pika.ID, gotRv.PokemonID)

	// delete cascades
	require.Equal(t, http.StatusOK, call(t, http.MethodDelete, fmt.Sprintf("%s/%d/delete", api, pika.ID), nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, own, nil, nil))
	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM reviews WHERE pokemon_id = ?", pika.ID))
	assert.Zero(t, count)
}
