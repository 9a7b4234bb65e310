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
package sqlserver

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/wentaojin/dataxtask/database/sqldb"
	"github.com/wentaojin/dataxtask/model/datasource"
)

func NewDatabase(ctx context.Context, conn *datasource.ConnectionParams) (*sqldb.Database, error) {
	query := url.Values{}
	query.Add("database", conn.Database)
	for _, p := range conn.Other {
		switch strings.ToLower(p.Key) {
		case "encrypt", "trustservercertificate":
			query.Add(p.Key, p.Value)
		}
	}
	connURL := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(conn.User, conn.Password),
		Host:     net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port)),
		RawQuery: query.Encode(),
	}

	db, err := sql.Open("sqlserver", connURL.String())
	if err != nil {
		return nil, fmt.Errorf("error on open sqlserver database connection: %v", err)
	}
	return sqldb.Open(ctx, "sqlserver", db)
}
