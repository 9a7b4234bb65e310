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

	"github.com/scylladb/go-set/strset"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"github.com/wentaojin/dataxtask/utils/stringutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	redactedPassword = "******"
	urlSeparators    = constant.StringSeparatorAmpersand + constant.StringSeparatorSemicolon + constant.StringSeparatorEqual
)

var hardeningKeys = strset.New(
	strings.ToLower(constant.HardeningAllowLoadLocalInfile),
	strings.ToLower(constant.HardeningAutoDeserialize),
	strings.ToLower(constant.HardeningAllowLocalInfile),
	strings.ToLower(constant.HardeningAllowUrlInLocalInfile),
)

// ConnectionParams is the decoded, dialect specific connection of one store,
// the password never leaves the process through json or the logger
type ConnectionParams struct {
	Type     StoreType `json:"type"`
	Address  string    `json:"address"`
	Host     string    `json:"host"`
	Port     int       `json:"port"`
	Database string    `json:"database"`
	User     string    `json:"user"`
	Password string    `json:"-"`
	JdbcUrl  string    `json:"jdbcUrl,omitempty"`
	Other    Other     `json:"other,omitempty"`
}

func (c *ConnectionParams) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", c.Type.String())
	enc.AddString("address", c.Address)
	enc.AddString("database", c.Database)
	enc.AddString("user", c.User)
	enc.AddString("password", redactedPassword)
	enc.AddString("jdbc_url", c.JdbcUrl)
	return nil
}

func (c *ConnectionParams) String() string {
	return fmt.Sprintf("type: [%s], address: [%s], database: [%s], user: [%s], password: [%s], jdbc-url: [%s]",
		c.Type, c.Address, c.Database, c.User, redactedPassword, c.JdbcUrl)
}

// BuildConnectionParams validates the descriptor, decodes the password with the key and
// renders the jdbc url with the driver hardening flags, a nil key means the password is stored as is
func BuildConnectionParams(ds *Datasource, key []byte) (*ConnectionParams, error) {
	if ds == nil {
		return nil, errutil.ConfigError.New("the datasource descriptor is missing")
	}
	if _, err := ds.Type.WriterPlugin(); err != nil {
		return nil, err
	}
	host := strings.TrimSpace(ds.Host)
	if host == "" {
		return nil, errutil.ConfigError.New("the datasource [%s] host is missing", ds.Type)
	}
	if ds.Port == "" {
		return nil, errutil.ConfigError.New("the datasource [%s] port is missing", ds.Type)
	}
	port, ok := ds.Port.Int()
	if !ok {
		return nil, errutil.ConfigError.New("the datasource [%s] port [%s] is not numeric", ds.Type, ds.Port)
	}
	database := strings.TrimSpace(ds.Database)
	if database == "" && ds.Type != StoreTypeElasticsearch {
		return nil, errutil.ConfigError.New("the datasource [%s] database is missing", ds.Type)
	}

	password := ds.Password
	if len(key) > 0 && password != "" {
		decoded, err := stringutil.Decrypt(password, key)
		if err != nil {
			return nil, errutil.ConfigError.Wrap(err, "the datasource [%s] password decode failed", ds.Type)
		}
		password = decoded
	}

	conn := &ConnectionParams{
		Type:     ds.Type,
		Host:     host,
		Port:     port,
		Database: database,
		User:     filterSensitive("username", ds.Username),
		Password: filterSensitive("password", password),
	}

	switch ds.Type {
	case StoreTypeElasticsearch:
		scheme := ds.Scheme
		if scheme == "" {
			scheme = constant.DataxElasticsearchScheme
		}
		conn.Address = fmt.Sprintf("%s://%s:%d", scheme, host, port)
		conn.Other = ds.Other
	case StoreTypeHive:
		conn.Address = fmt.Sprintf("%s%s:%d", ds.Type.JdbcPrefix(), host, port)
		conn.Other = filterOther(ds.Other, false)
		conn.JdbcUrl = fmt.Sprintf("%s/%s", conn.Address, database)
		if len(conn.Other) > 0 {
			conn.JdbcUrl = fmt.Sprintf("%s;%s", conn.JdbcUrl, conn.Other.Join(constant.StringSeparatorSemicolon))
		}
	case StoreTypeSQLServer:
		conn.Address = fmt.Sprintf("%s%s:%d", ds.Type.JdbcPrefix(), host, port)
		conn.Other = hardenOther(ds.Other)
		conn.JdbcUrl = fmt.Sprintf("%s;databaseName=%s;%s", conn.Address, database, conn.Other.Join(constant.StringSeparatorSemicolon))
	case StoreTypeMySQL, StoreTypePostgreSQL, StoreTypeOracle, StoreTypeDM, StoreTypeClickHouse:
		conn.Address = fmt.Sprintf("%s%s:%d", ds.Type.JdbcPrefix(), host, port)
		conn.Other = hardenOther(ds.Other)
		conn.JdbcUrl = fmt.Sprintf("%s/%s?%s", conn.Address, database, conn.Other.Join(constant.StringSeparatorAmpersand))
	default:
		return nil, errutil.ConfigError.New("the store type [%s] is not supported", ds.Type)
	}

	logger.Debug("datasource connection params built", zap.Object("connection", conn))
	return conn, nil
}

// hardenOther drops unsafe caller params and appends every hardening flag disabled
func hardenOther(other Other) Other {
	params := filterOther(other, true)
	for _, k := range constant.HardeningParams {
		params = append(params, Param{Key: k, Value: "false"})
	}
	return params
}

// filterOther drops params whose key or value carries a url separator, with hardening
// set it also drops params naming a hardening flag in the key or the value
func filterOther(other Other, hardening bool) Other {
	params := make(Other, 0, len(other)+len(constant.HardeningParams))
	for _, p := range other {
		if strings.ContainsAny(p.Key, urlSeparators) || strings.ContainsAny(p.Value, urlSeparators) {
			logger.Warn("datasource param carrying a url separator is filtered", zap.String("key", p.Key))
			continue
		}
		if hardening && (isHardeningKey(p.Key) || isHardeningKey(p.Value)) {
			logger.Warn("datasource param overriding a hardening flag is filtered", zap.String("key", p.Key))
			continue
		}
		params = append(params, p)
	}
	return params
}

func isHardeningKey(key string) bool {
	lower := strings.ToLower(key)
	if hardeningKeys.Has(lower) {
		return true
	}
	return stringutil.IsContainedStringIgnoreCase(lower, hardeningKeys.List())
}

// filterSensitive strips the deserialization switch smuggled through credentials,
// it reduces noise and is not the redaction mechanism
func filterSensitive(field, value string) string {
	if !strings.Contains(value, constant.HardeningAutoDeserialize) {
		return value
	}
	logger.Warn("sensitive param in credential field is filtered",
		zap.String("field", field), zap.String("param", constant.HardeningAutoDeserialize))
	return strings.ReplaceAll(value, constant.HardeningAutoDeserialize, "")
}
