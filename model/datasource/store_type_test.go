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
package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wentaojin/dataxtask/utils/errutil"
)

func TestParseStoreType(t *testing.T) {
	for _, st := range StoreTypes {
		got, err := ParseStoreType(" " + st.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	got, err := ParseStoreType("mysql")
	require.NoError(t, err)
	assert.Equal(t, StoreTypeMySQL, got)

	_, err = ParseStoreType("mongodb")
	assert.True(t, errutil.IsConfigError(err))
}

func TestStoreTypeQuoteIdentifier(t *testing.T) {
	for _, st := range StoreTypes {
		got := st.QuoteIdentifier("col")
		switch st {
		case StoreTypePostgreSQL, StoreTypeDM, StoreTypeOracle:
			assert.Equal(t, `"col"`, got, st.String())
		default:
			assert.Equal(t, "col", got, st.String())
		}
	}
}

func TestStoreTypeEscapeKeyword(t *testing.T) {
	tests := []struct {
		st   StoreType
		in   string
		want string
	}{
		{StoreTypeMySQL, " `order` ", "`order`"},
		{StoreTypeMySQL, `"desc"`, "`desc`"},
		{StoreTypePostgreSQL, "`user`", `"user"`},
		{StoreTypeOracle, "level", `"level"`},
		{StoreTypeDM, `"name"`, `"name"`},
		{StoreTypeSQLServer, "[key]", "[key]"},
		{StoreTypeSQLServer, "key", "[key]"},
		{StoreTypeClickHouse, "`ts`", "ts"},
		{StoreTypeHive, `"a"`, "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.st.EscapeKeyword(tt.in), tt.st.String())
	}
}

func TestStoreTypePlugins(t *testing.T) {
	_, err := StoreTypeElasticsearch.ReaderPlugin()
	assert.True(t, errutil.IsConfigError(err))

	w, err := StoreTypeElasticsearch.WriterPlugin()
	require.NoError(t, err)
	assert.Equal(t, "elasticsearchwriter", w)

	r, err := StoreTypeHive.ReaderPlugin()
	require.NoError(t, err)
	assert.Equal(t, "hdfsreader", r)

	for _, st := range StoreTypes {
		_, err = st.WriterPlugin()
		assert.NoError(t, err, st.String())
	}
	assert.True(t, StoreTypeMySQL.SupportsWriteModes())
	assert.False(t, StoreTypePostgreSQL.SupportsWriteModes())
	assert.False(t, StoreTypeHive.IsRelational())
}
