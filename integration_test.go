//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/suparena/mapstore"
	"github.com/suparena/mapstore/config"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/keyvalue"
	"github.com/suparena/mapstore/repository"
	"github.com/suparena/mapstore/storagemodels"
	"github.com/suparena/mapstore/testmodels"
)

// Helper to open a DynamoDB-backed store from the environment
func setupIntegrationStore(t *testing.T) *mapstore.Store {
	t.Helper()

	if os.Getenv(config.EnvTable) == "" {
		t.Skipf("%s not set, skipping integration test", config.EnvTable)
	}

	cfg := config.Default()
	cfg.Backend = config.BackendDynamoDB
	// isolate runs sharing a table
	cfg.Instance = fmt.Sprintf("it-%d", time.Now().UnixNano())
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		t.Fatalf("Failed to read environment: %v", err)
	}

	store, err := mapstore.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func ratingSystemRepository(t *testing.T, store *mapstore.Store) repository.Repository[testmodels.RatingSystem, string] {
	t.Helper()
	testmodels.Register()

	repo, err := mapstore.RepositoryFor(store, repository.EntityInformation[testmodels.RatingSystem, string]{},
		repository.Method{Name: "findByName"},
		repository.Method{Name: "findBySiteURLContaining"},
		repository.Method{Name: "deleteByName"},
	)
	if err != nil {
		t.Fatalf("RepositoryFor failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.DeleteAll(context.Background()) })
	return repo
}

func strptr(s string) *string { return &s }

func newRatingSystem(name, site string) testmodels.RatingSystem {
	now := strfmt.DateTime(time.Now().UTC().Truncate(time.Millisecond))
	return testmodels.RatingSystem{
		Name:        strptr(name),
		Description: strptr(name + " rating system"),
		SiteURL:     site,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
}

func TestIntegrationBasicOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	repo := ratingSystemRepository(t, setupIntegrationStore(t))

	saved, err := repo.Save(ctx, newRatingSystem("Elo", "https://elo.example.com"))
	if err != nil {
		t.Fatalf("Failed to save rating system: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Expected an id to be generated")
	}

	retrieved, err := repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Failed to get rating system: %v", err)
	}
	if *retrieved.Name != "Elo" || retrieved.SiteURL != saved.SiteURL {
		t.Errorf("Retrieved rating system doesn't match: got %+v, want %+v", retrieved, saved)
	}
	if !time.Time(*retrieved.CreatedAt).Equal(time.Time(*saved.CreatedAt)) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", retrieved.CreatedAt, saved.CreatedAt)
	}

	updated := time.Now().UTC().Add(time.Minute).Truncate(time.Millisecond)
	retrieved.Description = strptr("updated")
	retrieved.UpdatedAt = (*strfmt.DateTime)(&updated)
	if _, err := repo.Save(ctx, retrieved); err != nil {
		t.Fatalf("Failed to update rating system: %v", err)
	}
	again, err := repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Failed to get rating system: %v", err)
	}
	if *again.Description != "updated" {
		t.Errorf("Expected updated description, got %q", *again.Description)
	}

	if err := repo.DeleteByID(ctx, saved.ID); err != nil {
		t.Fatalf("Failed to delete rating system: %v", err)
	}
	if _, err := repo.FindByID(ctx, saved.ID); !errors.IsNotFound(err) {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestIntegrationQuery(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	repo := ratingSystemRepository(t, setupIntegrationStore(t))

	for _, name := range []string{"Elo", "Glicko", "Glicko-2", "TrueSkill"} {
		if _, err := repo.Save(ctx, newRatingSystem(name, "https://"+name+".example.org")); err != nil {
			t.Fatalf("Failed to save %s: %v", name, err)
		}
	}

	glicko, err := repo.FindBy(ctx, "findByName", "Glicko")
	if err != nil {
		t.Fatalf("FindBy failed: %v", err)
	}
	if len(glicko) != 1 {
		t.Errorf("Expected 1 Glicko, got %d", len(glicko))
	}

	glickos, err := repo.FindBy(ctx, "findBySiteURLContaining", "Glicko", keyvalue.By("Name").Descending())
	if err != nil {
		t.Fatalf("FindBy failed: %v", err)
	}
	if len(glickos) != 2 || *glickos[0].Name != "Glicko-2" {
		t.Errorf("Expected Glicko-2 then Glicko, got %d results", len(glickos))
	}

	page, err := repo.FindAllPaged(ctx, repository.PageRequest(1, 3, keyvalue.Asc("Name")))
	if err != nil {
		t.Fatalf("FindAllPaged failed: %v", err)
	}
	if page.TotalElements != 4 || len(page.Content) != 1 || *page.Content[0].Name != "TrueSkill" {
		t.Errorf("unexpected second page: %d total, %d items", page.TotalElements, len(page.Content))
	}

	deleted, err := repo.DeleteBy(ctx, "deleteByName", "Elo")
	if err != nil {
		t.Fatalf("DeleteBy failed: %v", err)
	}
	if len(deleted) != 1 {
		t.Errorf("Expected 1 deleted, got %d", len(deleted))
	}
	if n, _ := repo.Count(ctx); n != 3 {
		t.Errorf("Expected 3 left, got %d", n)
	}
}

func TestIntegrationStreaming(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	repo := ratingSystemRepository(t, setupIntegrationStore(t))

	const total = 25
	for i := 0; i < total; i++ {
		if _, err := repo.Save(ctx, newRatingSystem(fmt.Sprintf("system-%02d", i), "")); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
	}

	var progress []storagemodels.StreamProgress
	count := 0
	for res := range repo.Stream(ctx, nil,
		storagemodels.WithPageSize(10),
		storagemodels.WithProgressHandler(func(p storagemodels.StreamProgress) {
			progress = append(progress, p)
		}),
	) {
		if res.Error != nil {
			t.Fatalf("Stream error: %v", res.Error)
		}
		count++
	}

	if count != total {
		t.Errorf("Expected %d streamed items, got %d", total, count)
	}
	if len(progress) == 0 {
		t.Error("Expected progress updates")
	}
}
