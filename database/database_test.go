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
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/errutil"
)

func TestNewDatabaseWithoutDriver(t *testing.T) {
	for _, st := range []datasource.StoreType{
		datasource.StoreTypeDM,
		datasource.StoreTypeClickHouse,
		datasource.StoreTypeHive,
		datasource.StoreTypeElasticsearch,
	} {
		_, err := NewDatabase(context.Background(), &datasource.ConnectionParams{Type: st})
		require.Error(t, err, st.String())
		assert.True(t, errutil.IsConfigError(err), st.String())
	}
	_, err := NewDatabase(context.Background(), nil)
	assert.True(t, errutil.IsConfigError(err))
}

func TestRegisterOpener(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	RegisterOpener(datasource.StoreTypeHive, func(ctx context.Context, conn *datasource.ConnectionParams) (IDatabase, error) {
		return NewDatabaseFromDB(conn.Type, db), nil
	})
	defer RegisterOpener(datasource.StoreTypeHive, nil)

	mock.ExpectQuery("SHOW CREATE TABLE t").
		WillReturnRows(sqlmock.NewRows([]string{"createtab_stmt"}).AddRow("CREATE TABLE `t`(").AddRow(")"))
	mock.ExpectClose()

	conn, err := DefaultProvider.Open(context.Background(), &datasource.ConnectionParams{Type: datasource.StoreTypeHive})
	require.NoError(t, err)
	columns, rows, err := conn.GeneralQuery(context.Background(), "SHOW CREATE TABLE t")
	require.NoError(t, err)
	assert.Equal(t, []string{"createtab_stmt"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "CREATE TABLE `t`(", rows[0]["createtab_stmt"])
	require.NoError(t, conn.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSelectParser(t *testing.T) {
	for _, st := range datasource.StoreTypes {
		p, ok := NewSelectParser(st)
		switch st {
		case datasource.StoreTypeMySQL, datasource.StoreTypePostgreSQL:
			assert.True(t, ok, st.String())
			assert.NotNil(t, p, st.String())
		default:
			assert.False(t, ok, st.String())
		}
	}
}
