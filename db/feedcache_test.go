package db

import (
	"testing"
	"time"

	"miniverse/domain"
)

func TestFeedCache(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.db.Close()

	posts := []domain.BlogPost{
		{Id: "p1", Title: "First", Author: "mira"},
		{Id: "p2", Title: "Second", Author: "noor"},
	}

	t.Run("WriteFeedCache then ReadFeedCache round-trips", func(t *testing.T) {
		if err := testDB.WriteFeedCache("public", posts); err != nil {
			t.Fatalf("Failed to write cache: %v", err)
		}

		err, got, fetchedAt := testDB.ReadFeedCache("public")
		if err != nil {
			t.Fatalf("Failed to read cache: %v", err)
		}
		if got == nil || len(*got) != 2 {
			t.Fatal("Expected 2 cached posts")
		}
		if (*got)[0].Id != "p1" {
			t.Errorf("Expected first cached post p1, got %s", (*got)[0].Id)
		}
		if fetchedAt.IsZero() {
			t.Error("Expected fetchedAt to be set")
		}
	})

	t.Run("ReadFeedCache misses cleanly", func(t *testing.T) {
		err, got, _ := testDB.ReadFeedCache("no-such-feed")
		if err != nil {
			t.Fatalf("Expected no error on miss, got %v", err)
		}
		if got != nil {
			t.Error("Expected nil posts on miss")
		}
	})

	t.Run("WriteFeedCache replaces previous entry", func(t *testing.T) {
		if err := testDB.WriteFeedCache("mine", posts[:1]); err != nil {
			t.Fatalf("Failed to write cache: %v", err)
		}
		if err := testDB.WriteFeedCache("mine", posts); err != nil {
			t.Fatalf("Failed to overwrite cache: %v", err)
		}
		err, got, _ := testDB.ReadFeedCache("mine")
		if err != nil {
			t.Fatalf("Failed to read cache: %v", err)
		}
		if len(*got) != 2 {
			t.Errorf("Expected 2 posts after overwrite, got %d", len(*got))
		}
	})

	t.Run("PurgeFeedCache keeps fresh entries", func(t *testing.T) {
		if err := testDB.WriteFeedCache("capsules", posts); err != nil {
			t.Fatalf("Failed to write cache: %v", err)
		}
		if err := testDB.PurgeFeedCache(time.Hour); err != nil {
			t.Fatalf("Failed to purge cache: %v", err)
		}
		err, got, _ := testDB.ReadFeedCache("capsules")
		if err != nil {
			t.Fatalf("Failed to read cache: %v", err)
		}
		if got == nil {
			t.Error("Fresh entry purged unexpectedly")
		}
	})

	t.Run("ClearFeedCache drops everything", func(t *testing.T) {
		if err := testDB.ClearFeedCache(); err != nil {
			t.Fatalf("Failed to clear cache: %v", err)
		}
		err, got, _ := testDB.ReadFeedCache("public")
		if err != nil {
			t.Fatalf("Failed to read cache: %v", err)
		}
		if got != nil {
			t.Error("Expected empty cache after clear")
		}
	})
}
