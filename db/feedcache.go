package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"miniverse/domain"
)

const sqlCreateFeedCacheTable = `
CREATE TABLE IF NOT EXISTS feed_cache (
	feed_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL
);`

const sqlCreateFeedCacheIndices = `
CREATE INDEX IF NOT EXISTS idx_feed_cache_fetched_at ON feed_cache(fetched_at);`

// WriteFeedCache stores the posts shown for a feed key (only "public" is
// cached, owner-scoped lists never touch disk) so the next startup can
// paint something before the network answers.
func (d *DB) WriteFeedCache(feedKey string, posts []domain.BlogPost) error {
	payload, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		`INSERT INTO feed_cache (feed_key, payload, fetched_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(feed_key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		feedKey, string(payload), time.Now().UTC(),
	)
	return err
}

// ReadFeedCache returns the cached posts for a feed key together with when
// they were fetched. A cache miss yields a nil slice and no error.
func (d *DB) ReadFeedCache(feedKey string) (error, *[]domain.BlogPost, time.Time) {
	row := d.db.QueryRow(
		`SELECT payload, fetched_at FROM feed_cache WHERE feed_key = ?`, feedKey)

	var payload string
	var fetchedAt time.Time
	err := row.Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil, time.Time{}
	}
	if err != nil {
		return err, nil, time.Time{}
	}

	var posts []domain.BlogPost
	if err := json.Unmarshal([]byte(payload), &posts); err != nil {
		return err, nil, time.Time{}
	}
	return nil, &posts, fetchedAt
}

// PurgeFeedCache drops cache entries older than maxAge.
func (d *DB) PurgeFeedCache(maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge)
	_, err := d.db.Exec(`DELETE FROM feed_cache WHERE fetched_at < ?`, cutoff)
	return err
}

// ClearFeedCache drops everything, used on logout so another account's feed
// never leaks into the next session.
func (d *DB) ClearFeedCache() error {
	_, err := d.db.Exec(`DELETE FROM feed_cache`)
	return err
}
