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
package datax

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wentaojin/dataxtask/database"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/errutil"
)

// countingProvider hands out the mocked handle and counts the opened connections
type countingProvider struct {
	db    *sql.DB
	err   error
	opens int32
}

func (p *countingProvider) Open(ctx context.Context, conn *datasource.ConnectionParams) (database.IDatabase, error) {
	atomic.AddInt32(&p.opens, 1)
	if p.err != nil {
		return nil, p.err
	}
	return database.NewDatabaseFromDB(conn.Type, p.db), nil
}

func (p *countingProvider) Opens() int {
	return int(atomic.LoadInt32(&p.opens))
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	return db, mock
}

func TestColumnNameResolverParse(t *testing.T) {
	provider := &countingProvider{err: errors.New("no connection expected")}
	r := NewColumnNameResolver(provider)

	tests := []struct {
		name   string
		source datasource.StoreType
		target datasource.StoreType
		sql    string
		want   []string
	}{
		{"mysql to mysql", datasource.StoreTypeMySQL, datasource.StoreTypeMySQL, "SELECT a AS x, b FROM t", []string{"`x`", "`b`"}},
		{"mysql to postgres", datasource.StoreTypeMySQL, datasource.StoreTypePostgreSQL, "SELECT a AS x, b FROM t", []string{`"x"`, `"b"`}},
		{"mysql union", datasource.StoreTypeMySQL, datasource.StoreTypeSQLServer, "select a from t1 union select c as d from t2", []string{"[d]"}},
		{"postgres to clickhouse", datasource.StoreTypePostgreSQL, datasource.StoreTypeClickHouse, `select t.id, "name" as n from s.t`, []string{"id", "n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.source, tt.target, &datasource.ConnectionParams{Type: tt.source}, tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, 0, provider.Opens())
}

func TestColumnNameResolverProbe(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT t.* FROM ( select id, name from t ) t WHERE 0 = 1").
		WillReturnRows(sqlmock.NewRows([]string{"ID", "NAME"}))
	mock.ExpectClose()

	provider := &countingProvider{db: db}
	r := NewColumnNameResolver(provider)
	got, err := r.Resolve(context.Background(), datasource.StoreTypeOracle, datasource.StoreTypePostgreSQL,
		&datasource.ConnectionParams{Type: datasource.StoreTypeOracle}, "select id, name from t;")
	require.NoError(t, err)
	assert.Equal(t, []string{`"ID"`, `"NAME"`}, got)
	assert.Equal(t, 1, provider.Opens())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnNameResolverParseFallbackToProbe(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT t.* FROM ( select * from t ) t WHERE 0 = 1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order"}))
	mock.ExpectClose()

	r := NewColumnNameResolver(&countingProvider{db: db})
	got, err := r.Resolve(context.Background(), datasource.StoreTypeMySQL, datasource.StoreTypeMySQL,
		&datasource.ConnectionParams{Type: datasource.StoreTypeMySQL}, "select * from t")
	require.NoError(t, err)
	assert.Equal(t, []string{"`id`", "`order`"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnNameResolverUnresolved(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT t.* FROM ( select * from t ) t WHERE 0 = 1").
		WillReturnRows(sqlmock.NewRows(nil))
	mock.ExpectClose()

	r := NewColumnNameResolver(&countingProvider{db: db})
	_, err := r.Resolve(context.Background(), datasource.StoreTypeOracle, datasource.StoreTypeMySQL,
		&datasource.ConnectionParams{Type: datasource.StoreTypeOracle}, "select * from t")
	require.Error(t, err)
	assert.True(t, errutil.IsColumnResolutionError(err), err.Error())
	require.NoError(t, mock.ExpectationsWereMet())

	r = NewColumnNameResolver(&countingProvider{err: errutil.ConfigError.New("no driver")})
	_, err = r.Resolve(context.Background(), datasource.StoreTypeDM, datasource.StoreTypeMySQL,
		&datasource.ConnectionParams{Type: datasource.StoreTypeDM}, "select * from t")
	require.Error(t, err)
	assert.True(t, errutil.IsColumnResolutionError(err), err.Error())
}
