// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Handler tests drive the full route tree with fakes behind every
// dependency; no database, cache, or provider is required.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandforge/internal/ai"
	"brandforge/internal/content"
	"brandforge/internal/handlers"
	"brandforge/internal/images"
	"brandforge/internal/models"
	"brandforge/internal/router"
	"brandforge/internal/schedule"
	"brandforge/internal/store"
)

// sampleSetJSON is the canned full-batch model output used by fakeGen.
const sampleSetJSON = `{
	"posts": [
		{"title": "First post", "caption": "Caption one", "image_prompt": "a cup"},
		{"title": "Second post", "caption": "Caption two", "image_prompt": "a bag"}
	],
	"reels": [{"title": "Reel", "hook": "Wait for it", "script": "Scene one", "image_prompt": "slow pour"}],
	"articles": [{"title": "Article", "body": "Long form text.", "image_prompt": "workbench"}],
	"carousels": [{"style_prompt": "flat pastel", "slides": [
		{"heading": "One", "body": "Slide one", "image_prompt": "step one"},
		{"heading": "Two", "body": "Slide two", "image_prompt": "step two"}
	]}],
	"quotes": [{"body": "Less but better.", "author": "D. Rams", "image_prompt": "quote card"}],
	"videos": [{"title": "Video", "script": "Long script.", "image_prompt": "studio"}]
}`

// fakeGen satisfies content.Generator with canned stream bodies.
type fakeGen struct {
	setBody   string
	itemBody  string
	setErr    error
	itemErr   error
	itemCalls int
}

func (g *fakeGen) StreamSet(ctx context.Context, req content.SetRequest) (io.ReadCloser, error) {
	if g.setErr != nil {
		return nil, g.setErr
	}
	return io.NopCloser(strings.NewReader(g.setBody)), nil
}

func (g *fakeGen) StreamItem(ctx context.Context, req content.ItemRequest) (io.ReadCloser, error) {
	g.itemCalls++
	if g.itemErr != nil {
		return nil, g.itemErr
	}
	return io.NopCloser(strings.NewReader(g.itemBody)), nil
}

// memSets is an in-memory handlers.SetStore.
type memSets struct {
	mu   sync.Mutex
	sets map[uuid.UUID]*models.ContentSet
}

func newMemSets() *memSets {
	return &memSets{sets: make(map[uuid.UUID]*models.ContentSet)}
}

func (s *memSets) Create(ctx context.Context, set *models.ContentSet) error {
	return s.Save(ctx, set)
}

func (s *memSets) Save(ctx context.Context, set *models.ContentSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[set.ID] = set.Clone()
	return nil
}

func (s *memSets) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[id]
	if !ok {
		return nil, nil
	}
	return set.Clone(), nil
}

func (s *memSets) List(ctx context.Context) ([]store.SetSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.SetSummary
	for _, set := range s.sets {
		out = append(out, store.SetSummary{ID: set.ID, Theme: set.Theme, Tone: set.Tone, Language: set.Language})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *memSets) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, id)
	return nil
}

// memBrands is an in-memory handlers.BrandStore.
type memBrands struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.BrandProfile
}

func newMemBrands() *memBrands {
	return &memBrands{profiles: make(map[uuid.UUID]*models.BrandProfile)}
}

func (s *memBrands) FindBySetID(ctx context.Context, setID uuid.UUID) (*models.BrandProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[setID], nil
}

func (s *memBrands) Upsert(ctx context.Context, p *models.BrandProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.SetID] = p
	return nil
}

// memAssets is an in-memory images.AssetStore.
type memAssets struct {
	mu     sync.Mutex
	assets map[string]*models.ImageAsset
}

func newMemAssets() *memAssets {
	return &memAssets{assets: make(map[string]*models.ImageAsset)}
}

func assetMapKey(setID uuid.UUID, key string) string {
	return setID.String() + "/" + key
}

func (s *memAssets) Get(ctx context.Context, setID uuid.UUID, key string) (*models.ImageAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assets[assetMapKey(setID, key)], nil
}

func (s *memAssets) Put(ctx context.Context, asset *models.ImageAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[assetMapKey(asset.SetID, asset.Key)] = asset
	return nil
}

func (s *memAssets) Delete(ctx context.Context, setID uuid.UUID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets, assetMapKey(setID, key))
	return nil
}

func (s *memAssets) Keys(ctx context.Context, setID uuid.UUID) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{})
	for k := range s.assets {
		prefix := setID.String() + "/"
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = struct{}{}
		}
	}
	return out, nil
}

// memDates is an in-memory schedule.DateStore.
type memDates struct {
	mu    sync.Mutex
	dates map[string]time.Time
}

func newMemDates() *memDates {
	return &memDates{dates: make(map[string]time.Time)}
}

func (s *memDates) Set(ctx context.Context, setID uuid.UUID, key string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dates[assetMapKey(setID, key)] = date
	return nil
}

func (s *memDates) Clear(ctx context.Context, setID uuid.UUID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dates, assetMapKey(setID, key))
	return nil
}

func (s *memDates) List(ctx context.Context, setID uuid.UUID) (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time)
	for k, d := range s.dates {
		prefix := setID.String() + "/"
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = d
		}
	}
	return out, nil
}

// fakeImageClient satisfies the orchestrator's Client interface.
type fakeImageClient struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool // prompts containing a failing substring error out
}

func (c *fakeImageClient) GenerateImage(ctx context.Context, prompt string, opts ai.ImageOptions) ([]byte, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, prompt)
	for substr := range c.fail {
		if strings.Contains(prompt, substr) {
			return nil, "", fmt.Errorf("provider rejected prompt")
		}
	}
	return []byte("png-bytes:" + prompt), "image/png", nil
}

// env bundles one fully wired test server.
type env struct {
	gen     *fakeGen
	sets    *memSets
	brands  *memBrands
	assets  *memAssets
	dates   *memDates
	imgs    *fakeImageClient
	handler chi.Router
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		gen:    &fakeGen{setBody: sampleSetJSON, itemBody: `{"title": "Generated", "caption": "Fresh", "image_prompt": "new art"}`},
		sets:   newMemSets(),
		brands: newMemBrands(),
		assets: newMemAssets(),
		dates:  newMemDates(),
		imgs:   &fakeImageClient{fail: map[string]bool{}},
	}
	registry := ai.NewRegistry("openai", nil)
	api := handlers.NewAPI(
		e.gen,
		registry,
		e.sets,
		e.brands,
		images.New(e.imgs, e.assets),
		e.assets,
		schedule.NewManager(nil, e.dates),
	)
	e.handler = router.New(api)
	return e
}

// do runs one request against the test server and returns the recorder.
func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// createSet generates a set through the API and returns its parsed state.
func (e *env) createSet(t *testing.T) *models.ContentSet {
	t.Helper()
	w := e.do(t, "POST", "/api/sets", map[string]string{"theme": "specialty coffee"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create set: got %d, body %s", w.Code, w.Body.String())
	}
	var set models.ContentSet
	if err := json.NewDecoder(w.Body).Decode(&set); err != nil {
		t.Fatalf("decode created set: %v", err)
	}
	return &set
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
