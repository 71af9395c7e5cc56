package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// erNoReferencedRow is MariaDB's ER_NO_REFERENCED_ROW_2 error number.
const erNoReferencedRow = 1452

// IsForeignKeyViolation reports whether err is a failed foreign key check on
// insert, e.g. a join row pointing at a deleted tag.
func IsForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == erNoReferencedRow
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Link describes an ordered many-to-many join table such as contact_tags.
// Table and column names are compile-time constants, never user input.
type Link struct {
	Table    string
	OwnerCol string
	RefCol   string
}

// Replace deletes the owner's join rows and inserts refIDs in order,
// recording each id's index in the position column.
func (l Link) Replace(ctx context.Context, tx *sql.Tx, ownerID string, refIDs []string) error {
	del := `DELETE FROM ` + l.Table + ` WHERE ` + l.OwnerCol + ` = ?`
	if _, err := tx.ExecContext(ctx, del, ownerID); err != nil {
		return fmt.Errorf("clearing %s: %w", l.Table, err)
	}
	if len(refIDs) == 0 {
		return nil
	}

	query := `INSERT INTO ` + l.Table + ` (` + l.OwnerCol + `, ` + l.RefCol + `, position) VALUES `
	args := make([]any, 0, len(refIDs)*3)
	for i, ref := range refIDs {
		if i > 0 {
			query += `, `
		}
		query += `(?, ?, ?)`
		args = append(args, ownerID, ref, i)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting %s: %w", l.Table, err)
	}
	return nil
}

// Load returns the ordered ref ids for each owner in a single query.
// Owners without rows get an empty, non-nil slice.
func (l Link) Load(ctx context.Context, q Querier, ownerIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(ownerIDs))
	for _, id := range ownerIDs {
		result[id] = []string{}
	}
	if len(ownerIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + l.OwnerCol + `, ` + l.RefCol + ` FROM ` + l.Table +
		` WHERE ` + l.OwnerCol + ` IN (` + Placeholders(len(ownerIDs)) + `)` +
		` ORDER BY ` + l.OwnerCol + `, position`

	rows, err := q.QueryContext(ctx, query, StringArgs(ownerIDs)...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", l.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, ref string
		if err := rows.Scan(&owner, &ref); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", l.Table, err)
		}
		result[owner] = append(result[owner], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", l.Table, err)
	}
	return result, nil
}
