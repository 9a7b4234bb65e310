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
	"reflect"
	"testing"
)

func TestParserSelectColumns(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		want    []string
		wantErr bool
	}{
		{"alias and plain column", "SELECT a AS x, b FROM t", []string{"x", "b"}, false},
		{"qualified column", `select s.t.id, t."Name" from s.t;`, []string{"id", "Name"}, false},
		{"union takes right branch", "select a, b from t1 union select c, d as e from t2", []string{"c", "e"}, false},
		{"cast with alias", "select a::text as a_text from t", []string{"a_text"}, false},
		{"expression without alias", "select a + 1 from t", nil, true},
		{"star", "select * from t", nil, true},
		{"except", "select a from t1 except select a from t2", nil, true},
		{"not a select", "delete from t", nil, true},
		{"unparseable", "select from where", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parser{}.SelectColumns(tt.sql)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SelectColumns(%q) error = %v, wantErr %v", tt.sql, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectColumns(%q) = %v, want %v", tt.sql, got, tt.want)
			}
		})
	}
}
