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
	"fmt"
	"strings"

	"github.com/wentaojin/dataxtask/database"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"go.uber.org/zap"
)

// ColumnNameResolver derives the output column names of a custom sql, first by parsing it
// then by probing the source with an empty result query
type ColumnNameResolver struct {
	provider database.Provider
}

func NewColumnNameResolver(provider database.Provider) *ColumnNameResolver {
	if provider == nil {
		provider = database.DefaultProvider
	}
	return &ColumnNameResolver{provider: provider}
}

// Resolve returns the column names escaped for the target store
func (r *ColumnNameResolver) Resolve(ctx context.Context, source, target datasource.StoreType, conn *datasource.ConnectionParams, query string) ([]string, error) {
	columns := r.parse(source, query)

	var probeErr error
	if len(columns) == 0 {
		logger.Info("datax column resolver try to execute sql analysis query column name",
			zap.String("store_type", source.String()))
		columns, probeErr = r.probe(ctx, conn, query)
		if probeErr != nil {
			logger.Warn("datax column resolver probe query failed",
				zap.String("store_type", source.String()), zap.Error(probeErr))
		}
	}
	if len(columns) == 0 {
		if probeErr != nil {
			return nil, errutil.ColumnResolutionError.Wrap(probeErr, "parsing sql columns failed, sql: [%s]", query)
		}
		return nil, errutil.ColumnResolutionError.New("parsing sql columns failed, sql: [%s]", query)
	}

	escaped := make([]string, 0, len(columns))
	for _, c := range columns {
		escaped = append(escaped, target.EscapeKeyword(c))
	}
	return escaped, nil
}

func (r *ColumnNameResolver) parse(source datasource.StoreType, query string) []string {
	parser, ok := database.NewSelectParser(source)
	if !ok {
		logger.Warn("datax column resolver database driver is not support grammatical analysis sql",
			zap.String("store_type", source.String()))
		return nil
	}
	columns, err := parser.SelectColumns(query)
	if err != nil {
		logger.Warn("datax column resolver grammatical analysis sql failed",
			zap.String("store_type", source.String()), zap.Error(err))
		return nil
	}
	return columns
}

func (r *ColumnNameResolver) probe(ctx context.Context, conn *datasource.ConnectionParams, query string) ([]string, error) {
	probeSQL := strings.ReplaceAll(fmt.Sprintf(constant.DataxProbeSQL, query), constant.StringSeparatorSemicolon, "")

	db, err := r.provider.Open(ctx, conn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, probeSQL)
	if err != nil {
		return nil, fmt.Errorf("probe query failed, sql: [%v], error: [%v]", probeSQL, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("probe query rows.Columns failed, sql: [%v], error: [%v]", probeSQL, err)
	}
	return columns, nil
}
