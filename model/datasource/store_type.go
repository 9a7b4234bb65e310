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
	"fmt"
	"strings"

	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
)

// StoreType is the closed set of stores a datax job can read from or write to,
// every dialect dependent branch switches over it
type StoreType int

const (
	StoreTypeUnknown StoreType = iota
	StoreTypeMySQL
	StoreTypePostgreSQL
	StoreTypeOracle
	StoreTypeSQLServer
	StoreTypeDM
	StoreTypeClickHouse
	StoreTypeHive
	StoreTypeElasticsearch
)

// StoreTypes lists every known store type
var StoreTypes = []StoreType{
	StoreTypeMySQL,
	StoreTypePostgreSQL,
	StoreTypeOracle,
	StoreTypeSQLServer,
	StoreTypeDM,
	StoreTypeClickHouse,
	StoreTypeHive,
	StoreTypeElasticsearch,
}

func (s StoreType) String() string {
	switch s {
	case StoreTypeMySQL:
		return "MYSQL"
	case StoreTypePostgreSQL:
		return "POSTGRESQL"
	case StoreTypeOracle:
		return "ORACLE"
	case StoreTypeSQLServer:
		return "SQLSERVER"
	case StoreTypeDM:
		return "DM"
	case StoreTypeClickHouse:
		return "CLICKHOUSE"
	case StoreTypeHive:
		return "HIVE"
	case StoreTypeElasticsearch:
		return "ELASTICSEARCH"
	case StoreTypeUnknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("StoreType(%d)", int(s))
	}
}

// ParseStoreType matches the store type name case-insensitively
func ParseStoreType(s string) (StoreType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range StoreTypes {
		if t.String() == name {
			return t, nil
		}
	}
	return StoreTypeUnknown, errutil.ConfigError.New("the store type [%s] is not supported", s)
}

func (s StoreType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StoreType) UnmarshalText(text []byte) error {
	t, err := ParseStoreType(string(text))
	if err != nil {
		return err
	}
	*s = t
	return nil
}

// IsRelational reports whether the store is read and written through a jdbc rdbms plugin
func (s StoreType) IsRelational() bool {
	switch s {
	case StoreTypeMySQL, StoreTypePostgreSQL, StoreTypeOracle, StoreTypeSQLServer, StoreTypeDM, StoreTypeClickHouse:
		return true
	case StoreTypeHive, StoreTypeElasticsearch, StoreTypeUnknown:
		return false
	default:
		return false
	}
}

// ReaderPlugin returns the datax reader plugin name
func (s StoreType) ReaderPlugin() (string, error) {
	switch s {
	case StoreTypeMySQL:
		return constant.DataxPluginMysqlReader, nil
	case StoreTypePostgreSQL:
		return constant.DataxPluginPostgresqlReader, nil
	case StoreTypeOracle:
		return constant.DataxPluginOracleReader, nil
	case StoreTypeSQLServer:
		return constant.DataxPluginSqlserverReader, nil
	case StoreTypeDM:
		return constant.DataxPluginDMReader, nil
	case StoreTypeClickHouse:
		return constant.DataxPluginClickhouseReader, nil
	case StoreTypeHive:
		return constant.DataxPluginHdfsReader, nil
	case StoreTypeElasticsearch, StoreTypeUnknown:
		return "", errutil.ConfigError.New("the store type [%s] can't be used as a datax reader", s)
	default:
		return "", errutil.ConfigError.New("the store type [%s] can't be used as a datax reader", s)
	}
}

// WriterPlugin returns the datax writer plugin name
func (s StoreType) WriterPlugin() (string, error) {
	switch s {
	case StoreTypeMySQL:
		return constant.DataxPluginMysqlWriter, nil
	case StoreTypePostgreSQL:
		return constant.DataxPluginPostgresqlWriter, nil
	case StoreTypeOracle:
		return constant.DataxPluginOracleWriter, nil
	case StoreTypeSQLServer:
		return constant.DataxPluginSqlserverWriter, nil
	case StoreTypeDM:
		return constant.DataxPluginDMWriter, nil
	case StoreTypeClickHouse:
		return constant.DataxPluginClickhouseWriter, nil
	case StoreTypeHive:
		return constant.DataxPluginHdfsWriter, nil
	case StoreTypeElasticsearch:
		return constant.DataxPluginElasticsearchWriter, nil
	case StoreTypeUnknown:
		return "", errutil.ConfigError.New("the store type [%s] can't be used as a datax writer", s)
	default:
		return "", errutil.ConfigError.New("the store type [%s] can't be used as a datax writer", s)
	}
}

// JdbcPrefix returns the jdbc url prefix, empty for stores without jdbc access
func (s StoreType) JdbcPrefix() string {
	switch s {
	case StoreTypeMySQL:
		return constant.JdbcPrefixMySQL
	case StoreTypePostgreSQL:
		return constant.JdbcPrefixPostgresql
	case StoreTypeOracle:
		return constant.JdbcPrefixOracle
	case StoreTypeSQLServer:
		return constant.JdbcPrefixSqlserver
	case StoreTypeDM:
		return constant.JdbcPrefixDM
	case StoreTypeClickHouse:
		return constant.JdbcPrefixClickhouse
	case StoreTypeHive:
		return constant.JdbcPrefixHive
	case StoreTypeElasticsearch, StoreTypeUnknown:
		return ""
	default:
		return ""
	}
}

// NeedQuoteIdentifier reports whether datax table and column names must be double quoted
func (s StoreType) NeedQuoteIdentifier() bool {
	switch s {
	case StoreTypePostgreSQL, StoreTypeDM, StoreTypeOracle:
		return true
	case StoreTypeMySQL, StoreTypeSQLServer, StoreTypeClickHouse, StoreTypeHive, StoreTypeElasticsearch, StoreTypeUnknown:
		return false
	default:
		return false
	}
}

// SupportsWriteModes reports whether the writer accepts insert / replace / update
func (s StoreType) SupportsWriteModes() bool {
	switch s {
	case StoreTypeMySQL:
		return true
	case StoreTypePostgreSQL, StoreTypeOracle, StoreTypeSQLServer, StoreTypeDM, StoreTypeClickHouse,
		StoreTypeHive, StoreTypeElasticsearch, StoreTypeUnknown:
		return false
	default:
		return false
	}
}

// QuoteIdentifier wraps the identifier in double quotes when the store requires it
func (s StoreType) QuoteIdentifier(name string) string {
	if !s.NeedQuoteIdentifier() {
		return name
	}
	return constant.StringSeparatorDoubleQuotes + name + constant.StringSeparatorDoubleQuotes
}

// EscapeKeyword strips existing quotes and re-quotes the column name with the store keyword escape
func (s StoreType) EscapeKeyword(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer(constant.StringSeparatorBacktick, "", constant.StringSeparatorDoubleQuotes, "").Replace(name)
	switch s {
	case StoreTypeMySQL:
		return constant.StringSeparatorBacktick + name + constant.StringSeparatorBacktick
	case StoreTypePostgreSQL, StoreTypeOracle, StoreTypeDM:
		return constant.StringSeparatorDoubleQuotes + name + constant.StringSeparatorDoubleQuotes
	case StoreTypeSQLServer:
		return "[" + strings.Trim(name, "[]") + "]"
	case StoreTypeClickHouse, StoreTypeHive, StoreTypeElasticsearch, StoreTypeUnknown:
		return name
	default:
		return name
	}
}
