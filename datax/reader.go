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
	"strings"

	"github.com/corazawaf/libinjection-go"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/model/task"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"go.uber.org/zap"
)

func (b *JobBuilder) buildReader(ctx context.Context) (map[string]any, error) {
	st := b.ec.Source.Type
	name, err := st.ReaderPlugin()
	if err != nil {
		return nil, err
	}

	var param map[string]any
	switch st {
	case datasource.StoreTypeHive:
		param, err = b.hiveReaderParameter(ctx)
		if err != nil {
			return nil, err
		}
	case datasource.StoreTypeMySQL, datasource.StoreTypePostgreSQL, datasource.StoreTypeOracle,
		datasource.StoreTypeSQLServer, datasource.StoreTypeDM, datasource.StoreTypeClickHouse:
		param = b.rdbmsReaderParameter()
	case datasource.StoreTypeElasticsearch, datasource.StoreTypeUnknown:
		return nil, errutil.ConfigError.New("the datax reader of store type [%s] is not supported", st)
	default:
		return nil, errutil.ConfigError.New("the datax reader of store type [%s] is not supported", st)
	}

	logger.Info("datax job reader built",
		zap.String("task_app_id", b.ec.TaskAppID),
		zap.String("reader", name),
		zap.Object("connection", b.source))
	return map[string]any{
		"name":      name,
		"parameter": param,
	}, nil
}

func (b *JobBuilder) hiveReaderParameter(ctx context.Context) (map[string]any, error) {
	p := b.ec.Datax
	meta, err := b.prober.Probe(ctx, b.source, p.SourceTable)
	if err != nil {
		return nil, err
	}

	var column any
	if len(p.DsColumns) == 0 {
		column = []string{constant.StringSeparatorAsterisk}
	} else {
		cols := make([]map[string]any, 0, len(p.DsColumns))
		for _, c := range task.EnabledColumns(p.DsColumns) {
			if c.Index != nil && *c.Index >= 0 {
				cols = append(cols, map[string]any{
					"index": *c.Index,
					"type":  constant.DataxDefaultColumnType,
				})
			} else {
				cols = append(cols, map[string]any{
					"value": c.ColumnName,
					"type":  constant.DataxDefaultColumnType,
				})
			}
		}
		column = cols
	}

	return map[string]any{
		"column":         column,
		"path":           hdfsFilePath(meta.Path, p.DsPartitions, true),
		"defaultFS":      meta.DefaultFS,
		"fileType":       meta.FileType,
		"fieldDelimiter": meta.FieldDelimiter,
	}, nil
}

func (b *JobBuilder) rdbmsReaderParameter() map[string]any {
	p := b.ec.Datax
	st := b.ec.Source.Type

	conn := map[string]any{
		"jdbcUrl": []string{b.source.JdbcUrl},
	}
	param := map[string]any{
		"username": b.source.User,
		"password": b.source.Password,
	}

	if p.CustomSQL {
		warnInjection(b.ec.TaskAppID, "sql", p.SQL)
		conn["querySql"] = []string{p.SQL}
	} else {
		conn["table"] = []string{st.QuoteIdentifier(p.SourceTable)}

		cols := make([]string, 0, len(p.DsColumns))
		for _, c := range task.EnabledColumns(p.DsColumns) {
			cols = append(cols, st.QuoteIdentifier(c.ColumnName))
		}
		param["column"] = cols

		if strings.TrimSpace(p.Where) != "" {
			warnInjection(b.ec.TaskAppID, "where", p.Where)
			param["where"] = p.Where
		}
		if strings.TrimSpace(p.SplitPk) != "" {
			param["splitPk"] = p.SplitPk
		}
	}
	param["connection"] = []any{conn}
	return param
}

// warnInjection logs a hit and never rejects the statement
func warnInjection(taskAppID, field, value string) {
	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		logger.Warn("datax reader statement matches a sql injection fingerprint",
			zap.String("task_app_id", taskAppID),
			zap.String("field", field),
			zap.String("fingerprint", string(fingerprint)))
	}
}
