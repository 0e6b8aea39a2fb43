// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"brandforge/internal/models"
)

func TestGenerateSingleImage(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)
	key := set.Posts[0].ID.String()

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/images/generate", map[string]string{"key": key})
	if w.Code != http.StatusOK {
		t.Fatalf("generate image: got %d, body %s", w.Code, w.Body.String())
	}

	asset, err := e.assets.Get(context.Background(), set.ID, key)
	if err != nil || asset == nil {
		t.Fatalf("asset not stored: %v", err)
	}
	if asset.ContentType != "image/png" {
		t.Errorf("content type: got %q", asset.ContentType)
	}
}

func TestGenerateImageUsesBrandContext(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)
	key := set.Posts[0].ID.String()

	e.do(t, "PUT", "/api/sets/"+set.ID.String()+"/brand", map[string]string{
		"colors": "#101010, #eeeeee",
	})

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/images/generate", map[string]string{"key": key})
	if w.Code != http.StatusOK {
		t.Fatalf("generate image: got %d", w.Code)
	}

	last := e.imgs.calls[len(e.imgs.calls)-1]
	if !strings.Contains(last, "#101010") {
		t.Errorf("prompt missing brand colors: %q", last)
	}
}

func TestGenerateImageUnknownKey(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/images/generate", map[string]string{"key": "nonsense"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown key: got %d, want 404", w.Code)
	}
}

func TestGenerateImageProviderFailure(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)
	key := set.Posts[0].ID.String()
	e.imgs.fail["a cup"] = true

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/images/generate", map[string]string{"key": key})
	if w.Code != http.StatusBadGateway {
		t.Errorf("provider failure: got %d, want 502", w.Code)
	}
}

func TestGenerateAllImages(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/images/generate-all", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generate-all: got %d, body %s", w.Code, w.Body.String())
	}
	report := decodeJSON[struct {
		Generated []string          `json:"generated"`
		Failed    map[string]string `json:"failed"`
	}](t, w)
	if len(report.Failed) != 0 {
		t.Errorf("unexpected failures: %v", report.Failed)
	}

	// Every prompt-bearing item plus both carousel slides gets an asset.
	keys, err := e.assets.Keys(context.Background(), set.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Six prompt-bearing items plus one asset per carousel slide.
	want := 6 + len(set.Carousels[0].Slides)
	if len(keys) != want {
		t.Errorf("stored assets: got %d, want %d", len(keys), want)
	}
	slideKey := models.SlideKey(set.Carousels[0].ID, 1)
	if _, ok := keys[slideKey]; !ok {
		t.Errorf("missing slide asset %s", slideKey)
	}
}

func TestGenerateAllImagesPartialFailure(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)
	e.imgs.fail["workbench"] = true // the article's prompt

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/images/generate-all", nil)
	if w.Code != http.StatusMultiStatus {
		t.Fatalf("partial failure: got %d, want 207", w.Code)
	}
	report := decodeJSON[struct {
		Generated []string          `json:"generated"`
		Failed    map[string]string `json:"failed"`
	}](t, w)
	if len(report.Failed) != 1 {
		t.Errorf("failed jobs: got %d, want 1", len(report.Failed))
	}
	if len(report.Generated) == 0 {
		t.Error("one failure blocked the whole batch")
	}
}

func TestRegenerateImageWithFeedback(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)
	key := set.Posts[0].ID.String()

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/images/feedback", map[string]string{
		"key":      key,
		"feedback": "make it darker",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("feedback: got %d, body %s", w.Code, w.Body.String())
	}

	last := e.imgs.calls[len(e.imgs.calls)-1]
	if !strings.Contains(last, "make it darker") {
		t.Errorf("prompt missing feedback: %q", last)
	}
}

func TestGetAndDeleteImage(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)
	key := set.Posts[0].ID.String()
	base := "/api/sets/" + set.ID.String() + "/images/"

	e.do(t, "POST", "/api/sets/"+set.ID.String()+"/images/generate", map[string]string{"key": key})

	w := e.do(t, "GET", base+key, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get image: got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "png-bytes:") {
		t.Error("unexpected image payload")
	}

	w = e.do(t, "DELETE", base+key, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete image: got %d", w.Code)
	}

	w = e.do(t, "GET", base+key, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted image still served: got %d", w.Code)
	}
}
