package markdown

import (
	"testing"
	"time"
)

func TestParseFrontMatterExtractsMetadata(t *testing.T) {
	source := []byte(`---
title: Design a URL Shortener
slug: url-shortener
section: hld
position: 3
summary: Hashing, redirects, and storage trade-offs.
tags:
  - hashing
  - storage
author: Ada
date: 2025-03-01T00:00:00Z
draft: true
difficulty: medium
---

## Requirements

Shorten links.
`)

	front, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter returned error: %v", err)
	}

	if front.Title != "Design a URL Shortener" {
		t.Errorf("expected title, got %q", front.Title)
	}
	if front.Slug != "url-shortener" {
		t.Errorf("expected slug, got %q", front.Slug)
	}
	if front.Section != "hld" {
		t.Errorf("expected section hld, got %q", front.Section)
	}
	if front.Position != 3 {
		t.Errorf("expected position 3, got %d", front.Position)
	}
	if !front.Draft {
		t.Error("expected draft to be true")
	}
	if len(front.Tags) != 2 || front.Tags[0] != "hashing" {
		t.Errorf("unexpected tags: %v", front.Tags)
	}
	if want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC); !front.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, front.Date)
	}
	if front.Custom["difficulty"] != "medium" {
		t.Errorf("expected custom difficulty, got %v", front.Custom["difficulty"])
	}
	if front.Raw["title"] != "Design a URL Shortener" {
		t.Errorf("expected raw title, got %v", front.Raw["title"])
	}

	if got := string(body); got == "" || got[0] == '-' {
		t.Errorf("expected body without delimiters, got %q", got)
	}
}

func TestParseFrontMatterWithoutMetadata(t *testing.T) {
	source := []byte("# Plain Lesson\n\nNo metadata here.\n")

	front, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter returned error: %v", err)
	}
	if front.Title != "" {
		t.Errorf("expected empty title, got %q", front.Title)
	}
	if string(body) != string(source) {
		t.Errorf("expected body to match source, got %q", string(body))
	}
}

func TestBuildDocumentKeepsLocaleAndTimestamp(t *testing.T) {
	modified := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	doc, err := BuildDocument("hld/caching.md", "en", []byte("---\ntitle: Caching\n---\nBody"), modified)
	if err != nil {
		t.Fatalf("BuildDocument returned error: %v", err)
	}
	if doc.Locale != "en" {
		t.Errorf("expected locale en, got %q", doc.Locale)
	}
	if !doc.LastModified.Equal(modified) {
		t.Errorf("expected last modified %v, got %v", modified, doc.LastModified)
	}
	if doc.FrontMatter.Title != "Caching" {
		t.Errorf("expected parsed title, got %q", doc.FrontMatter.Title)
	}
}
