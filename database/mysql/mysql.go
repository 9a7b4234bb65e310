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
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/wentaojin/dataxtask/database/sqldb"
	"github.com/wentaojin/dataxtask/model/datasource"
)

// NewDatabase opens a single connection handle, the jdbc only parameters of the
// descriptor are not forwarded since the go driver would send them as session variables
func NewDatabase(ctx context.Context, conn *datasource.ConnectionParams) (*sqldb.Database, error) {
	cfg := mysql.NewConfig()
	cfg.User = conn.User
	cfg.Passwd = conn.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port))
	cfg.DBName = conn.Database
	cfg.AllowAllFiles = false
	cfg.ParseTime = false

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("error on create mysql database connector: %v", err)
	}
	return sqldb.Open(ctx, "mysql", sql.OpenDB(connector))
}
