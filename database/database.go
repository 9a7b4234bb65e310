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
package database

import (
	"context"
	"database/sql"
	"sync"

	"github.com/wentaojin/dataxtask/database/mysql"
	"github.com/wentaojin/dataxtask/database/oracle"
	"github.com/wentaojin/dataxtask/database/postgresql"
	"github.com/wentaojin/dataxtask/database/sqldb"
	"github.com/wentaojin/dataxtask/database/sqlserver"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/errutil"
)

// IDatabase is a scoped connection used for exactly one probe or metadata query
type IDatabase interface {
	QueryContext(ctx context.Context, sqlStr string, args ...any) (*sql.Rows, error)
	GeneralQuery(ctx context.Context, sqlStr string, args ...any) ([]string, []map[string]string, error)
	Close() error
}

// Provider hands out connections keyed by the connection store type
type Provider interface {
	Open(ctx context.Context, conn *datasource.ConnectionParams) (IDatabase, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context, conn *datasource.ConnectionParams) (IDatabase, error)

func (f ProviderFunc) Open(ctx context.Context, conn *datasource.ConnectionParams) (IDatabase, error) {
	return f(ctx, conn)
}

// Opener opens a connection for a store without a bundled go driver
type Opener func(ctx context.Context, conn *datasource.ConnectionParams) (IDatabase, error)

var (
	openersMu sync.RWMutex
	openers   = make(map[datasource.StoreType]Opener)
)

// RegisterOpener installs the opener of a store type, it replaces a previous registration
func RegisterOpener(st datasource.StoreType, opener Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	if opener == nil {
		delete(openers, st)
		return
	}
	openers[st] = opener
}

func registeredOpener(st datasource.StoreType) (Opener, bool) {
	openersMu.RLock()
	defer openersMu.RUnlock()
	o, ok := openers[st]
	return o, ok
}

// DefaultProvider opens connections through NewDatabase
var DefaultProvider Provider = ProviderFunc(NewDatabase)

// NewDatabase opens a connection for the store, a registered opener wins over the bundled driver
func NewDatabase(ctx context.Context, conn *datasource.ConnectionParams) (IDatabase, error) {
	if conn == nil {
		return nil, errutil.ConfigError.New("the connection params are missing")
	}
	if opener, ok := registeredOpener(conn.Type); ok {
		return opener(ctx, conn)
	}

	var (
		database *sqldb.Database
		err      error
	)
	switch conn.Type {
	case datasource.StoreTypeMySQL:
		database, err = mysql.NewDatabase(ctx, conn)
	case datasource.StoreTypePostgreSQL:
		database, err = postgresql.NewDatabase(ctx, conn)
	case datasource.StoreTypeOracle:
		database, err = oracle.NewDatabase(ctx, conn)
	case datasource.StoreTypeSQLServer:
		database, err = sqlserver.NewDatabase(ctx, conn)
	case datasource.StoreTypeDM, datasource.StoreTypeClickHouse, datasource.StoreTypeHive:
		return nil, errutil.ConfigError.New("the store type [%s] has no bundled driver, register an opener first", conn.Type)
	case datasource.StoreTypeElasticsearch, datasource.StoreTypeUnknown:
		return nil, errutil.ConfigError.New("the store type [%s] doesn't support sql queries", conn.Type)
	default:
		return nil, errutil.ConfigError.New("the store type [%s] is not supported", conn.Type)
	}
	if err != nil {
		return nil, err
	}
	return database, nil
}

// NewDatabaseFromDB wraps an already opened handle, used by registered openers
func NewDatabaseFromDB(st datasource.StoreType, db *sql.DB) IDatabase {
	return sqldb.NewDatabase(st.String(), db)
}

// SelectParser extracts the output column names of a select statement without a round trip
type SelectParser interface {
	SelectColumns(query string) ([]string, error)
}

// NewSelectParser returns the dialect parser, ok is false for dialects without one
func NewSelectParser(st datasource.StoreType) (SelectParser, bool) {
	switch st {
	case datasource.StoreTypeMySQL:
		return mysql.Parser{}, true
	case datasource.StoreTypePostgreSQL:
		return postgresql.Parser{}, true
	case datasource.StoreTypeOracle, datasource.StoreTypeSQLServer, datasource.StoreTypeDM, datasource.StoreTypeClickHouse,
		datasource.StoreTypeHive, datasource.StoreTypeElasticsearch, datasource.StoreTypeUnknown:
		return nil, false
	default:
		return nil, false
	}
}
