/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
)

// Database wraps a database/sql handle opened for probe and metadata queries
type Database struct {
	Dialect string
	DBConn  *sql.DB
}

func NewDatabase(dialect string, db *sql.DB) *Database {
	return &Database{Dialect: dialect, DBConn: db}
}

// Open pings the handle and closes it again when the server is unreachable
func Open(ctx context.Context, dialect string, db *sql.DB) (*Database, error) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error on ping %s database connection: %v", dialect, err)
	}
	return NewDatabase(dialect, db), nil
}

func (d *Database) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.DBConn.QueryContext(ctx, query, args...)
}

// GeneralQuery returns the column names and every row in result order, NULL is returned as an empty string
func (d *Database) GeneralQuery(ctx context.Context, query string, args ...any) ([]string, []map[string]string, error) {
	var (
		columns []string
		results []map[string]string
	)
	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed, sql: [%v], error: [%v]", query, err)
	}
	defer rows.Close()

	columns, err = rows.Columns()
	if err != nil {
		return columns, results, fmt.Errorf("query rows.Columns failed, sql: [%v], error: [%v]", query, err)
	}

	values := make([]sql.RawBytes, len(columns))
	scans := make([]any, len(columns))
	for i := range values {
		scans[i] = &values[i]
	}

	for rows.Next() {
		if err = rows.Scan(scans...); err != nil {
			return columns, results, fmt.Errorf("query rows.Scan failed, sql: [%v], error: [%v]", query, err)
		}
		row := make(map[string]string, len(columns))
		for k, v := range values {
			if v == nil {
				row[columns[k]] = ""
			} else {
				row[columns[k]] = string(v)
			}
		}
		results = append(results, row)
	}

	if err = rows.Err(); err != nil {
		return columns, results, fmt.Errorf("query rows.Next failed, sql: [%v], error: [%v]", query, err)
	}
	return columns, results, nil
}

func (d *Database) Close() error {
	return d.DBConn.Close()
}
