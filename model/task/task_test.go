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
package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/errutil"
)

func boolPtr(b bool) *bool { return &b }

func TestEnabledColumns(t *testing.T) {
	cols := []ColumnInfo{
		{ColumnName: "a"},
		{ColumnName: "b", Enable: boolPtr(false)},
		{ColumnName: "c", Enable: boolPtr(true)},
		{ColumnName: "d", Enable: boolPtr(false)},
		{ColumnName: "e"},
	}
	got := EnabledColumns(cols)
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.ColumnName)
	}
	assert.Equal(t, []string{"a", "c", "e"}, names)
}

func TestDataxParametersValidate(t *testing.T) {
	tests := []struct {
		name   string
		p      *DataxParameters
		source datasource.StoreType
		target datasource.StoreType
		ok     bool
	}{
		{"custom config", &DataxParameters{CustomConfig: true, Json: `{"job":{}}`}, datasource.StoreTypeUnknown, datasource.StoreTypeUnknown, true},
		{"custom config empty json", &DataxParameters{CustomConfig: true}, datasource.StoreTypeUnknown, datasource.StoreTypeUnknown, false},
		{"table mapping", &DataxParameters{SourceTable: "s", TargetTable: "t"}, datasource.StoreTypeMySQL, datasource.StoreTypePostgreSQL, true},
		{"missing source table", &DataxParameters{TargetTable: "t"}, datasource.StoreTypeMySQL, datasource.StoreTypeMySQL, false},
		{"custom sql", &DataxParameters{CustomSQL: true, SQL: "select 1", TargetTable: "t"}, datasource.StoreTypeMySQL, datasource.StoreTypeMySQL, true},
		{"custom sql empty", &DataxParameters{CustomSQL: true, TargetTable: "t"}, datasource.StoreTypeMySQL, datasource.StoreTypeMySQL, false},
		{"custom sql on hive source", &DataxParameters{CustomSQL: true, SQL: "select 1", TargetTable: "t"}, datasource.StoreTypeHive, datasource.StoreTypeMySQL, false},
		{"elasticsearch source", &DataxParameters{SourceTable: "s", TargetTable: "t"}, datasource.StoreTypeElasticsearch, datasource.StoreTypeMySQL, false},
		{"elasticsearch target without index", &DataxParameters{SourceTable: "s"}, datasource.StoreTypeMySQL, datasource.StoreTypeElasticsearch, false},
		{"elasticsearch target", &DataxParameters{SourceTable: "s", ElasticSearch: &ElasticSearchParams{Index: "idx"}}, datasource.StoreTypeMySQL, datasource.StoreTypeElasticsearch, true},
		{"elasticsearch bad alias mode", &DataxParameters{SourceTable: "s", ElasticSearch: &ElasticSearchParams{Index: "idx", Alias: "a", AliasMode: "merge"}}, datasource.StoreTypeMySQL, datasource.StoreTypeElasticsearch, false},
		{"mysql bad write mode", &DataxParameters{SourceTable: "s", TargetTable: "t", WriteMode: "upsert"}, datasource.StoreTypeMySQL, datasource.StoreTypeMySQL, false},
		{"hive write mode", &DataxParameters{SourceTable: "s", TargetTable: "t", WriteMode: "NONCONFLICT"}, datasource.StoreTypeMySQL, datasource.StoreTypeHive, true},
		{"negative channel", &DataxParameters{SourceTable: "s", TargetTable: "t", Channel: -1}, datasource.StoreTypeMySQL, datasource.StoreTypeMySQL, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate(tt.source, tt.target)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errutil.IsConfigError(err), err.Error())
		})
	}
}

func TestNormalizeWriteMode(t *testing.T) {
	m, err := NormalizeWriteMode(datasource.StoreTypeMySQL, "")
	require.NoError(t, err)
	assert.Equal(t, "insert", m)

	m, err = NormalizeWriteMode(datasource.StoreTypeMySQL, "REPLACE")
	require.NoError(t, err)
	assert.Equal(t, "replace", m)

	m, err = NormalizeWriteMode(datasource.StoreTypeHive, "truncate")
	require.NoError(t, err)
	assert.Equal(t, "truncate", m)

	_, err = NormalizeWriteMode(datasource.StoreTypeHive, "insert")
	assert.True(t, errutil.IsConfigError(err))
}

func TestExecutionContext(t *testing.T) {
	ec := &ExecutionContext{
		TaskAppID:    "1_2",
		ExecutePath:  "/tmp/exec",
		Source:       &datasource.Datasource{Type: datasource.StoreTypeMySQL},
		Target:       &datasource.Datasource{Type: datasource.StoreTypeMySQL},
		Datax:        &DataxParameters{SourceTable: "s", TargetTable: "t"},
		GlobalParams: map[string]string{"dt": "2024-01-01", "g": "1"},
		LocalParams:  map[string]string{"dt": "2024-02-02"},
	}
	require.NoError(t, ec.Validate())
	assert.Equal(t, map[string]string{"dt": "2024-02-02", "g": "1"}, ec.MergedParams())
	assert.Equal(t, filepath.Join("/tmp/exec", "1_2_job.json"), ec.JobFilePath())
	assert.Equal(t, filepath.Join("/tmp/exec", "1_2_node.sh"), ec.ScriptFilePath("sh"))

	ec.TaskAppID = "../x"
	assert.True(t, errutil.IsConfigError(ec.Validate()))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PYTHON_HOME", "/usr/bin/python3")
	t.Setenv("DATAX_LAUNCHER", "")
	t.Setenv("DATASOURCE_ENCRYPTION_KEY", "")

	file := filepath.Join(t.TempDir(), "task.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
app-id = "100_200"
execute-path = "/data/exec"

[log]
log-level = "debug"

[engine]
datax-launcher = "/opt/datax/bin/datax.py"

[source]
type = "mysql"
host = "127.0.0.1"
port = 3306
database = "db"
username = "root"
password = "root"

[target]
type = "hive"
host = "127.0.0.1"
port = 10000
database = "default"

[datax]
source-table = "orders"
target-table = "ods_orders"
channel = 3
xms = 2
xmx = 4
ds-partitions = ["dt=${dt}"]

[[datax.ds-columns]]
name = "id"
index = 0
type = "bigint"

[[datax.ds-columns]]
name = "note"
enable = false

[params]
dt = "2024-01-01"

[local-params]
dt = "2024-02-02"
`), 0644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.LogLevel)
	assert.Equal(t, 128, cfg.Log.MaxSize)
	assert.Equal(t, "/usr/bin/python3", cfg.Engine.PythonHome)
	assert.Equal(t, "/opt/datax/bin/datax.py", cfg.Engine.DataxLauncher)
	assert.Equal(t, datasource.StoreTypeHive, cfg.Target.Type)
	assert.Equal(t, 3, cfg.Datax.Channel)
	require.Len(t, cfg.Datax.DsColumns, 2)
	require.NotNil(t, cfg.Datax.DsColumns[0].Index)
	assert.Equal(t, 0, *cfg.Datax.DsColumns[0].Index)
	assert.False(t, cfg.Datax.DsColumns[1].IsEnable())
	assert.NotContains(t, cfg.String(), `"password"`)

	ec := cfg.ExecutionContext("")
	assert.Equal(t, "100_200", ec.TaskAppID)
	require.NoError(t, ec.Validate())
	assert.Equal(t, "2024-02-02", ec.MergedParams()["dt"])

	assert.Equal(t, "override", cfg.ExecutionContext("override").TaskAppID)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errutil.IsConfigError(err))
}
