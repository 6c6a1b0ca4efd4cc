package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
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

type FundingRound struct {
	ID          int64
	Date        string
	Startup     string
	Vertical    string
	Subvertical string
	City        string
	Investors   string
	Round       string
	Amount      string
}

type Import struct {
	ID         int64
	Source     string
	Rows       int64
	ImportedAt time.Time
}

const listFundingRounds = `
SELECT id, date, startup, vertical, subvertical, city, investors, round, amount
FROM funding_rounds
ORDER BY id
`

func (q *Queries) ListFundingRounds(ctx context.Context) ([]FundingRound, error) {
	rows, err := q.db.QueryContext(ctx, listFundingRounds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FundingRound
	for rows.Next() {
		var i FundingRound
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.Startup,
			&i.Vertical,
			&i.Subvertical,
			&i.City,
			&i.Investors,
			&i.Round,
			&i.Amount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createFundingRound = `
INSERT INTO funding_rounds (date, startup, vertical, subvertical, city, investors, round, amount)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateFundingRoundParams struct {
	Date        string
	Startup     string
	Vertical    string
	Subvertical string
	City        string
	Investors   string
	Round       string
	Amount      string
}

func (q *Queries) CreateFundingRound(ctx context.Context, arg CreateFundingRoundParams) error {
	_, err := q.db.ExecContext(ctx, createFundingRound,
		arg.Date,
		arg.Startup,
		arg.Vertical,
		arg.Subvertical,
		arg.City,
		arg.Investors,
		arg.Round,
		arg.Amount,
	)
	return err
}

const deleteAllFundingRounds = `DELETE FROM funding_rounds`

func (q *Queries) DeleteAllFundingRounds(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllFundingRounds)
	return err
}

const countFundingRounds = `SELECT COUNT(*) FROM funding_rounds`

func (q *Queries) CountFundingRounds(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countFundingRounds).Scan(&n)
	return n, err
}

const createImport = `INSERT INTO imports (source, rows) VALUES (?, ?)`

func (q *Queries) CreateImport(ctx context.Context, source string, rows int64) error {
	_, err := q.db.ExecContext(ctx, createImport, source, rows)
	return err
}

const getLastImport = `
SELECT id, source, rows, imported_at
FROM imports
ORDER BY id DESC
LIMIT 1
`

func (q *Queries) GetLastImport(ctx context.Context) (Import, error) {
	var i Import
	err := q.db.QueryRowContext(ctx, getLastImport).Scan(&i.ID, &i.Source, &i.Rows, &i.ImportedAt)
	return i, err
}
