/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ExportRecord is one row of the export history kept in the project index.
type ExportRecord struct {
	ID        int64
	Timestamp time.Time
	Title     string
	Size      int
}

// RecordExport stores an exported bot document in the project index and
// returns its row id.
func RecordExport(ctx context.Context, db *sql.DB, title string, doc []byte) (int64, error) {
	// language=SQL
	const insertExportSQL = `INSERT INTO exports(ts, title, doc) VALUES(?, ?, ?);`
	res, err := db.ExecContext(ctx, insertExportSQL, time.Now().UTC().Format(time.RFC3339Nano), title, doc)
	if err != nil {
		return 0, fmt.Errorf("record export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("export id: %w", err)
	}
	return id, nil
}

// ListExports returns the most recent export records, newest first.
// limit <= 0 lists everything.
func ListExports(ctx context.Context, db *sql.DB, limit int) ([]ExportRecord, error) {
	// language=SQL
	q := `SELECT id, ts, title, length(doc) FROM exports ORDER BY ts DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()
	var out []ExportRecord
	for rows.Next() {
		var r ExportRecord
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.Title, &r.Size); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			r.Timestamp = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadExport returns the stored document for the given export id.
func LoadExport(ctx context.Context, db *sql.DB, id int64) ([]byte, error) {
	// language=SQL
	const selectExportSQL = `SELECT doc FROM exports WHERE id = ?;`
	var doc []byte
	if err := db.QueryRowContext(ctx, selectExportSQL, id).Scan(&doc); err != nil {
		return nil, fmt.Errorf("load export %d: %w", id, err)
	}
	return doc, nil
}

// PruneExports keeps only the newest keep records and deletes the rest,
// returning the number of deleted rows.
func PruneExports(ctx context.Context, db *sql.DB, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	// language=SQL
	const pruneSQL = `
		DELETE FROM exports
		WHERE id NOT IN (
			SELECT id FROM exports ORDER BY ts DESC, id DESC LIMIT ?
		);`
	res, err := db.ExecContext(ctx, pruneSQL, keep)
	if err != nil {
		return 0, fmt.Errorf("prune exports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return n, nil
}
