package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhima/wx-api/internal/models"
)

// DefaultRecentLimit is used when Recent is called with a non-positive limit.
const DefaultRecentLimit = 10

// ErrRequestLogNotPending is returned when a status update matches no PENDING row.
var ErrRequestLogNotPending = errors.New("request log not found or already terminal")

// ErrNonTerminalStatus is returned when an update targets a non-terminal status.
var ErrNonTerminalStatus = errors.New("status update must be terminal")

// InsertPending appends a PENDING entry and returns the id assigned by the database.
func (c *SQLClient) InsertPending(ctx context.Context, zipCode, timestamp string) (int64, error) {
	query := `INSERT INTO request_history (zip_code, timestamp, status) VALUES (?, ?, ?)`

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	result, err := c.db.ExecContext(ctx, query, zipCode, timestamp, string(models.RequestStatusPending))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to insert request log: %w", ErrStorage, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read request log id: %w", ErrStorage, err)
	}
	return id, nil
}

// UpdateStatus moves the PENDING entry with the given id to a terminal status.
// An entry transitions at most once; a second update returns ErrRequestLogNotPending.
func (c *SQLClient) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	if !status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrNonTerminalStatus, status)
	}

	query := `
		UPDATE request_history
		SET status = ?
		WHERE id = ? AND status = ?
	`

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	result, err := c.db.ExecContext(ctx, query, string(status), id, string(models.RequestStatusPending))
	if err != nil {
		return fmt.Errorf("%w: failed to update request log status: %w", ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to read affected rows: %w", ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("request log %d: %w", id, ErrRequestLogNotPending)
	}
	return nil
}

// UpdateStatusByTimestamp moves every PENDING entry created at timestamp to a
// terminal status and reports how many rows matched. Timestamps are not unique,
// so two requests logged within the same microsecond are updated together;
// prefer UpdateStatus. The lookup path never calls this; it is kept for
// operators who correlate rows by wall-clock time.
func (c *SQLClient) UpdateStatusByTimestamp(ctx context.Context, timestamp string, status models.RequestStatus) (int64, error) {
	if !status.IsTerminal() {
		return 0, fmt.Errorf("%w: %s", ErrNonTerminalStatus, status)
	}

	query := `
		UPDATE request_history
		SET status = ?
		WHERE timestamp = ? AND status = ?
	`

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	result, err := c.db.ExecContext(ctx, query, string(status), timestamp, string(models.RequestStatusPending))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to update request log status: %w", ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read affected rows: %w", ErrStorage, err)
	}
	return affected, nil
}

// Recent returns up to limit entries, newest first.
func (c *SQLClient) Recent(ctx context.Context, limit int) ([]models.RequestLog, error) {
	if limit < 1 {
		limit = DefaultRecentLimit
	}

	query := `
		SELECT id, zip_code, timestamp, status
		FROM request_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list request logs: %w", ErrStorage, err)
	}
	defer rows.Close()

	entries := []models.RequestLog{}
	for rows.Next() {
		var entry models.RequestLog
		var status string
		if err := rows.Scan(&entry.ID, &entry.ZipCode, &entry.Timestamp, &status); err != nil {
			return nil, fmt.Errorf("%w: failed to scan request log: %w", ErrStorage, err)
		}
		entry.Status = models.RequestStatus(status)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating request logs: %w", ErrStorage, err)
	}

	return entries, nil
}

// CountByStatus returns the number of entries per status. Statuses with no
// entries are present with a zero count.
func (c *SQLClient) CountByStatus(ctx context.Context) (map[models.RequestStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM request_history GROUP BY status`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count request logs: %w", ErrStorage, err)
	}
	defer rows.Close()

	counts := map[models.RequestStatus]int64{
		models.RequestStatusPending: 0,
		models.RequestStatusSuccess: 0,
		models.RequestStatusFailed:  0,
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: failed to scan status count: %w", ErrStorage, err)
		}
		counts[models.RequestStatus(status)] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating status counts: %w", ErrStorage, err)
	}

	return counts, nil
}

// MarkStalePending fails every PENDING entry created before cutoff. It is the
// terminal transition for requests whose process died between insert and update.
func (c *SQLClient) MarkStalePending(ctx context.Context, cutoff string) (int64, error) {
	query := `
		UPDATE request_history
		SET status = ?
		WHERE status = ? AND timestamp < ?
	`

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	result, err := c.db.ExecContext(ctx, query,
		string(models.RequestStatusFailed),
		string(models.RequestStatusPending),
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to mark stale request logs: %w", ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read affected rows: %w", ErrStorage, err)
	}
	return affected, nil
}
