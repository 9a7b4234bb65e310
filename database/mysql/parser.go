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
	"fmt"

	"github.com/xwb1989/sqlparser"
)

// Parser extracts the output column names of a mysql select statement
type Parser struct{}

// SelectColumns returns the select item names of a plain select, or of the right
// branch of a union, any item without an alias or column name fails the whole statement
func (Parser) SelectColumns(query string) ([]string, error) {
	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("mysql sql parse failed, sql: [%v], error: [%v]", query, err)
	}

	var sel *sqlparser.Select
	switch s := stmt.(type) {
	case *sqlparser.Select:
		sel = s
	case *sqlparser.Union:
		sel = unwrapSelect(s.Right)
	case *sqlparser.ParenSelect:
		sel = unwrapSelect(s)
	}
	if sel == nil {
		return nil, fmt.Errorf("mysql sql statement type [%T] is not support, sql: [%v]", stmt, query)
	}

	columns := make([]string, 0, len(sel.SelectExprs))
	for _, expr := range sel.SelectExprs {
		aliased, ok := expr.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, fmt.Errorf("mysql select item [%s] can't be resolved to a column name", sqlparser.String(expr))
		}
		if !aliased.As.IsEmpty() {
			columns = append(columns, aliased.As.String())
			continue
		}
		col, ok := aliased.Expr.(*sqlparser.ColName)
		if !ok || col.Name.IsEmpty() {
			return nil, fmt.Errorf("mysql select item [%s] can't be resolved to a column name", sqlparser.String(expr))
		}
		columns = append(columns, col.Name.String())
	}
	return columns, nil
}

func unwrapSelect(stmt sqlparser.SelectStatement) *sqlparser.Select {
	for {
		switch s := stmt.(type) {
		case *sqlparser.Select:
			return s
		case *sqlparser.ParenSelect:
			stmt = s.Select
		default:
			return nil
		}
	}
}
