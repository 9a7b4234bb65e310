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
	"encoding/json"
	"strings"

	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/model/task"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"go.uber.org/zap"
)

func (b *JobBuilder) buildWriter(ctx context.Context) (map[string]any, error) {
	tt := b.ec.Target.Type
	name, err := tt.WriterPlugin()
	if err != nil {
		return nil, err
	}

	var param map[string]any
	switch tt {
	case datasource.StoreTypeHive:
		param, err = b.hiveWriterParameter(ctx)
	case datasource.StoreTypeElasticsearch:
		param, err = b.elasticsearchWriterParameter()
	case datasource.StoreTypeMySQL, datasource.StoreTypePostgreSQL, datasource.StoreTypeOracle,
		datasource.StoreTypeSQLServer, datasource.StoreTypeDM, datasource.StoreTypeClickHouse:
		param, err = b.rdbmsWriterParameter(ctx)
	case datasource.StoreTypeUnknown:
		return nil, errutil.ConfigError.New("the datax writer of store type [%s] is not supported", tt)
	default:
		return nil, errutil.ConfigError.New("the datax writer of store type [%s] is not supported", tt)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("datax job writer built",
		zap.String("task_app_id", b.ec.TaskAppID),
		zap.String("writer", name),
		zap.Object("connection", b.target))
	return map[string]any{
		"name":      name,
		"parameter": param,
	}, nil
}

func (b *JobBuilder) hiveWriterParameter(ctx context.Context) (map[string]any, error) {
	p := b.ec.Datax
	writeMode, err := task.NormalizeWriteMode(datasource.StoreTypeHive, p.WriteMode)
	if err != nil {
		return nil, err
	}
	meta, err := b.prober.Probe(ctx, b.target, p.TargetTable)
	if err != nil {
		return nil, err
	}

	cols := make([]map[string]any, 0, len(p.DtColumns))
	for _, c := range task.EnabledColumns(p.DtColumns) {
		cols = append(cols, map[string]any{
			"name": c.ColumnName,
			"type": columnType(c),
		})
	}

	return map[string]any{
		"column":         cols,
		"fileName":       p.TargetTable,
		"defaultFS":      meta.DefaultFS,
		"path":           hdfsFilePath(meta.Path, p.DtPartitions, false),
		"fileType":       meta.FileType,
		"fieldDelimiter": meta.FieldDelimiter,
		"writeMode":      writeMode,
	}, nil
}

func (b *JobBuilder) elasticsearchWriterParameter() (map[string]any, error) {
	p := b.ec.Datax
	es := p.ElasticSearch
	if es == nil || strings.TrimSpace(es.Index) == "" {
		return nil, errutil.ConfigError.New("the datax elasticsearch writer index is empty")
	}

	cols := make([]any, 0, len(p.DtColumns))
	for _, c := range task.EnabledColumns(p.DtColumns) {
		if strings.TrimSpace(c.Json) != "" {
			if !json.Valid([]byte(c.Json)) {
				return nil, errutil.ConfigError.New("the datax elasticsearch column [%s] json [%s] is invalid", c.ColumnName, c.Json)
			}
			cols = append(cols, json.RawMessage(c.Json))
			continue
		}
		cols = append(cols, map[string]any{
			"name": c.ColumnName,
			"type": columnType(c),
		})
	}

	param := map[string]any{
		"endpoint":  b.target.Address,
		"accessId":  b.target.User,
		"accessKey": b.target.Password,
		"index":     es.Index,
		"column":    cols,
	}
	if es.Type != "" {
		param["type"] = es.Type
	}
	if es.TrySize > 0 {
		param["trySize"] = es.TrySize
	}
	if es.Timeout > 0 {
		param["timeout"] = es.Timeout
	}
	putBool(param, "cleanup", es.CleanUp)
	putBool(param, "discovery", es.Discovery)
	putBool(param, "compression", es.Compression)
	putBool(param, "multiThread", es.MultiThread)
	putBool(param, "ignoreWriteError", es.IgnoreWriteError)
	putBool(param, "ignoreParseError", es.IgnoreParseError)
	putBool(param, "dynamic", es.Dynamic)

	if es.Alias != "" {
		aliasMode, err := task.NormalizeAliasMode(es.AliasMode)
		if err != nil {
			return nil, err
		}
		param["alias"] = es.Alias
		param["aliasMode"] = aliasMode
	}
	if es.Settings != "" {
		// valid json settings are kept as an object
		if json.Valid([]byte(es.Settings)) {
			param["settings"] = json.RawMessage(es.Settings)
		} else {
			param["settings"] = es.Settings
		}
	}
	if es.Splitter != "" {
		param["splitter"] = es.Splitter
	}
	if p.BatchSize > 0 {
		param["batchSize"] = p.BatchSize
	}
	return param, nil
}

func (b *JobBuilder) rdbmsWriterParameter(ctx context.Context) (map[string]any, error) {
	p := b.ec.Datax
	tt := b.ec.Target.Type

	param := map[string]any{
		"username": b.target.User,
		"password": b.target.Password,
		"connection": []any{
			map[string]any{
				"table":   []string{tt.QuoteIdentifier(p.TargetTable)},
				"jdbcUrl": b.target.JdbcUrl,
			},
		},
	}

	if tt.SupportsWriteModes() {
		writeMode, err := task.NormalizeWriteMode(tt, p.WriteMode)
		if err != nil {
			return nil, err
		}
		param["writeMode"] = writeMode
	}

	if p.CustomSQL {
		cols, err := b.resolver.Resolve(ctx, b.ec.Source.Type, tt, b.source, p.SQL)
		if err != nil {
			return nil, err
		}
		param["column"] = cols
	} else {
		cols := make([]string, 0, len(p.DtColumns))
		for _, c := range task.EnabledColumns(p.DtColumns) {
			cols = append(cols, tt.QuoteIdentifier(c.ColumnName))
		}
		param["column"] = cols
	}

	if len(p.PreStatements) > 0 {
		param["preSql"] = p.PreStatements
	}
	if len(p.PostStatements) > 0 {
		param["postSql"] = p.PostStatements
	}
	if p.BatchSize > 0 {
		param["batchSize"] = p.BatchSize
	}
	return param, nil
}

func putBool(param map[string]any, key string, v *bool) {
	if v != nil {
		param[key] = *v
	}
}
