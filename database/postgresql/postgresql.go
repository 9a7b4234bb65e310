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
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/wentaojin/dataxtask/database/sqldb"
	"github.com/wentaojin/dataxtask/model/datasource"
)

// pq only understands a subset of the jdbc parameters
var forwardParams = map[string]struct{}{
	"sslmode":          {},
	"connect_timeout":  {},
	"application_name": {},
}

func NewDatabase(ctx context.Context, conn *datasource.ConnectionParams) (*sqldb.Database, error) {
	query := url.Values{}
	for _, p := range conn.Other {
		if _, ok := forwardParams[p.Key]; ok {
			query.Set(p.Key, p.Value)
		}
	}
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	connURL := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conn.User, conn.Password),
		Host:     net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port)),
		Path:     "/" + conn.Database,
		RawQuery: query.Encode(),
	}

	db, err := sql.Open("postgres", connURL.String())
	if err != nil {
		return nil, fmt.Errorf("error on open postgresql database connection: %v", err)
	}
	return sqldb.Open(ctx, "postgresql", db)
}
