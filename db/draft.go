package db

import (
	"database/sql"
	"time"
)

const sqlCreateDraftsTable = `
CREATE TABLE IF NOT EXISTS drafts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	publish_at TEXT NOT NULL DEFAULT '',
	is_private INTEGER NOT NULL DEFAULT 0,
	remote_id TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL
);`

const sqlCreateDraftsIndices = `
CREATE INDEX IF NOT EXISTS idx_drafts_updated_at ON drafts(updated_at);`

// Draft is an unsubmitted post kept locally, so half-written entries survive
// a crash or a lost connection. RemoteId is set when the draft edits an
// existing post.
type Draft struct {
	Id        string
	Title     string
	Content   string
	PublishAt string
	IsPrivate bool
	RemoteId  string
	UpdatedAt time.Time
}

// SaveDraft inserts or replaces a draft by id.
func (d *DB) SaveDraft(draft Draft) error {
	_, err := d.db.Exec(
		`INSERT INTO drafts (id, title, content, publish_at, is_private, remote_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			publish_at = excluded.publish_at,
			is_private = excluded.is_private,
			remote_id = excluded.remote_id,
			updated_at = excluded.updated_at`,
		draft.Id, draft.Title, draft.Content, draft.PublishAt,
		boolToInt(draft.IsPrivate), draft.RemoteId, time.Now().UTC(),
	)
	return err
}

// ReadDraft loads one draft by id. A missing draft yields a nil pointer and
// no error.
func (d *DB) ReadDraft(id string) (error, *Draft) {
	row := d.db.QueryRow(
		`SELECT id, title, content, publish_at, is_private, remote_id, updated_at
		 FROM drafts WHERE id = ?`, id)

	var draft Draft
	var isPrivate int
	err := row.Scan(&draft.Id, &draft.Title, &draft.Content, &draft.PublishAt,
		&isPrivate, &draft.RemoteId, &draft.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return err, nil
	}
	draft.IsPrivate = isPrivate != 0
	return nil, &draft
}

// ReadAllDrafts lists drafts, most recently touched first.
func (d *DB) ReadAllDrafts() (error, *[]Draft) {
	rows, err := d.db.Query(
		`SELECT id, title, content, publish_at, is_private, remote_id, updated_at
		 FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		var draft Draft
		var isPrivate int
		if err := rows.Scan(&draft.Id, &draft.Title, &draft.Content, &draft.PublishAt,
			&isPrivate, &draft.RemoteId, &draft.UpdatedAt); err != nil {
			return err, nil
		}
		draft.IsPrivate = isPrivate != 0
		drafts = append(drafts, draft)
	}
	return rows.Err(), &drafts
}

// DeleteDraft removes a draft, typically after a successful submit.
func (d *DB) DeleteDraft(id string) error {
	_, err := d.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
