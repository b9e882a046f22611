package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// RecordRow mirrors a row of the records table.
type RecordRow struct {
	ID          int64
	Position    int64
	Description string
	Category    string
	Amount      int64
	Date        string
	Flagged     bool
}

const listRecords = `SELECT id, position, description, category, amount, date, flagged
FROM records
ORDER BY position ASC`

func (q *Queries) ListRecords(ctx context.Context) ([]RecordRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RecordRow
	for rows.Next() {
		var i RecordRow
		if err := rows.Scan(&i.ID, &i.Position, &i.Description, &i.Category, &i.Amount, &i.Date, &i.Flagged); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllRecords = `DELETE FROM records`

func (q *Queries) DeleteAllRecords(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllRecords)
	return err
}

const insertRecord = `INSERT INTO records (id, position, description, category, amount, date, flagged)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertRecord(ctx context.Context, arg RecordRow) error {
	_, err := q.db.ExecContext(ctx, insertRecord,
		arg.ID,
		arg.Position,
		arg.Description,
		arg.Category,
		arg.Amount,
		arg.Date,
		arg.Flagged,
	)
	return err
}
