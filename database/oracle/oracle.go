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
package oracle

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/godror/godror"
	"github.com/wentaojin/dataxtask/database/sqldb"
	"github.com/wentaojin/dataxtask/model/datasource"
)

// NewDatabase connects to the service name carried in the database field
func NewDatabase(ctx context.Context, conn *datasource.ConnectionParams) (*sqldb.Database, error) {
	// https://godror.github.io/godror/doc/connection.html
	connString := fmt.Sprintf("oracle://@%s:%d/%s?standaloneConnection=1", conn.Host, conn.Port, conn.Database)

	oraDSN, err := godror.ParseDSN(connString)
	if err != nil {
		return nil, fmt.Errorf("error on parse oracle connection string [%s]: %v", connString, err)
	}
	oraDSN.Username, oraDSN.Password = conn.User, godror.NewPassword(conn.Password)
	// close external auth
	oraDSN.ExternalAuth = false

	return sqldb.Open(ctx, "oracle", sql.OpenDB(godror.NewConnector(oraDSN)))
}
