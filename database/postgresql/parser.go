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
package postgresql

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// Parser extracts the output column names of a postgresql select statement
type Parser struct{}

// SelectColumns returns the target list names of a plain select, or of the right
// branch of a union, any target without an alias or column reference fails the whole statement
func (Parser) SelectColumns(query string) ([]string, error) {
	result, err := pg_query.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("postgresql sql parse failed, sql: [%v], error: [%v]", query, err)
	}
	if len(result.GetStmts()) == 0 {
		return nil, fmt.Errorf("postgresql sql is empty, sql: [%v]", query)
	}

	sel := result.GetStmts()[0].GetStmt().GetSelectStmt()
	if sel == nil {
		return nil, fmt.Errorf("postgresql sql statement is not a select, sql: [%v]", query)
	}
	switch sel.GetOp() {
	case pg_query.SetOperation_SETOP_NONE:
	case pg_query.SetOperation_SETOP_UNION:
		sel = sel.GetRarg()
	default:
		return nil, fmt.Errorf("postgresql select operation [%s] is not support, sql: [%v]", sel.GetOp(), query)
	}
	if sel == nil || sel.GetOp() != pg_query.SetOperation_SETOP_NONE || len(sel.GetTargetList()) == 0 {
		return nil, fmt.Errorf("postgresql select query type is not support, sql: [%v]", query)
	}

	columns := make([]string, 0, len(sel.GetTargetList()))
	for i, target := range sel.GetTargetList() {
		res := target.GetResTarget()
		if res == nil {
			return nil, fmt.Errorf("postgresql select item [%d] is not a result target, sql: [%v]", i, query)
		}
		if res.GetName() != "" {
			columns = append(columns, res.GetName())
			continue
		}
		name, ok := columnRefName(res.GetVal())
		if !ok {
			return nil, fmt.Errorf("postgresql select item [%d] can't be resolved to a column name, sql: [%v]", i, query)
		}
		columns = append(columns, name)
	}
	return columns, nil
}

// columnRefName returns the last field of a possibly qualified column reference
func columnRefName(node *pg_query.Node) (string, bool) {
	ref := node.GetColumnRef()
	if ref == nil || len(ref.GetFields()) == 0 {
		return "", false
	}
	last := ref.GetFields()[len(ref.GetFields())-1]
	str := last.GetString_()
	if str == nil || str.GetSval() == "" {
		return "", false
	}
	return str.GetSval(), true
}
