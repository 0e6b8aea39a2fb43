// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewWithoutCredentials(t *testing.T) {
	client, err := New("", "us-east-1", "", "", "public", "private", "")
	if err != nil {
		t.Fatalf("New without credentials: %v", err)
	}
	if client != nil {
		t.Error("expected nil client when storage is unconfigured")
	}
}

func TestNewWithCredentials(t *testing.T) {
	client, err := New("https://s3.example.com/", "us-east-1", "key", "secret", "public", "private", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client == nil {
		t.Fatal("expected client")
	}
	if client.endpoint != "https://s3.example.com" {
		t.Errorf("endpoint not trimmed: %q", client.endpoint)
	}
}

func TestImageObjectKey(t *testing.T) {
	setID := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	key := ImageObjectKey(setID, "post:0", "image/png")
	want := "sets/11111111-2222-3333-4444-555555555555/post/0.png"
	if key != want {
		t.Errorf("object key = %q, want %q", key, want)
	}

	key = ImageObjectKey(setID, "carousel:0:slide:2", "image/jpeg")
	if !strings.HasPrefix(key, "sets/11111111-2222-3333-4444-555555555555/carousel/0/slide/2") {
		t.Errorf("slide key = %q", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("jpeg key should carry a .jpg extension: %q", key)
	}

	key = ImageObjectKey(setID, "reel:1", "application/octet-stream")
	if !strings.HasSuffix(key, "reel/1.png") {
		t.Errorf("unknown content type should fall back to .png: %q", key)
	}
}

func TestImageURL(t *testing.T) {
	client := &Client{
		endpoint:     "https://s3.example.com",
		publicBucket: "brandforge-public",
	}
	url := client.ImageURL("sets/abc/post/0.png")
	if url != "https://s3.example.com/brandforge-public/sets/abc/post/0.png" {
		t.Errorf("path-style URL = %q", url)
	}

	client.publicURL = "https://cdn.example.com"
	url = client.ImageURL("sets/abc/post/0.png")
	if url != "https://cdn.example.com/sets/abc/post/0.png" {
		t.Errorf("CDN URL = %q", url)
	}
}
