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
package constant

// DataX reader / writer plugin names
const (
	DataxPluginMysqlReader         = "mysqlreader"
	DataxPluginMysqlWriter         = "mysqlwriter"
	DataxPluginPostgresqlReader    = "postgresqlreader"
	DataxPluginPostgresqlWriter    = "postgresqlwriter"
	DataxPluginOracleReader        = "oraclereader"
	DataxPluginOracleWriter        = "oraclewriter"
	DataxPluginSqlserverReader     = "sqlserverreader"
	DataxPluginSqlserverWriter     = "sqlserverwriter"
	DataxPluginDMReader            = "dmreader"
	DataxPluginDMWriter            = "dmwriter"
	DataxPluginClickhouseReader    = "clickhousereader"
	DataxPluginClickhouseWriter    = "clickhousewriter"
	DataxPluginHdfsReader          = "hdfsreader"
	DataxPluginHdfsWriter          = "hdfswriter"
	DataxPluginElasticsearchWriter = "elasticsearchwriter"
)

// JDBC url prefix
const (
	JdbcPrefixMySQL      = "jdbc:mysql://"
	JdbcPrefixPostgresql = "jdbc:postgresql://"
	JdbcPrefixOracle     = "jdbc:oracle:thin:@//"
	JdbcPrefixSqlserver  = "jdbc:sqlserver://"
	JdbcPrefixDM         = "jdbc:dm://"
	JdbcPrefixClickhouse = "jdbc:clickhouse://"
	JdbcPrefixHive       = "jdbc:hive2://"
)

// Driver hardening flags, appended to every relational jdbc url
const (
	HardeningAllowLoadLocalInfile  = "allowLoadLocalInfile"
	HardeningAutoDeserialize       = "autoDeserialize"
	HardeningAllowLocalInfile      = "allowLocalInfile"
	HardeningAllowUrlInLocalInfile = "allowUrlInLocalInfile"
)

// HardeningParams is the ordered flag list, each disabled
var HardeningParams = []string{
	HardeningAllowLoadLocalInfile,
	HardeningAutoDeserialize,
	HardeningAllowLocalInfile,
	HardeningAllowUrlInLocalInfile,
}

// DataX job defaults
const (
	DataxDefaultChannel          = 1
	DataxDefaultHeapSize         = 1
	DataxDefaultErrorLimitRecord = 0
	DataxDefaultErrorLimitPct    = 0
	DataxDefaultColumnType       = "string"
	DataxHiveDefaultDelimiter    = "\t"
	DataxJobFileSuffix           = "_job.json"
	DataxScriptFileSuffix        = "_node"
	DataxDefaultLauncher         = "${DATAX_HOME}/bin/datax.py"
	DataxDefaultPython           = "python"
	DataxScriptFilePerm          = 0755
	DataxJobFilePerm             = 0600
	DataxExecDirPerm             = 0755
	DataxProbeSQL                = "SELECT t.* FROM ( %s ) t WHERE 0 = 1"
	DataxHiveShowCreateTableSQL  = "SHOW CREATE TABLE %s"
	DataxHiveFileTypeText        = "text"
	DataxHiveFileTypeOrc         = "orc"
	DataxElasticsearchScheme     = "http"
	DataxYarnApplicationIDRegexp = `application_\d+_\d+`
)

// DataX writer write modes
const (
	DataxWriteModeInsert  = "insert"
	DataxWriteModeReplace = "replace"
	DataxWriteModeUpdate  = "update"

	DataxHiveWriteModeAppend      = "append"
	DataxHiveWriteModeNonConflict = "nonConflict"
	DataxHiveWriteModeTruncate    = "truncate"
)

const (
	StringSeparatorComma        = ","
	StringSeparatorSlash        = "/"
	StringSeparatorSemicolon    = ";"
	StringSeparatorAmpersand    = "&"
	StringSeparatorEqual        = "="
	StringSeparatorQuestion     = "?"
	StringSeparatorBacktick     = "`"
	StringSeparatorDoubleQuotes = "\""
	StringSeparatorDoubleColon  = ":"
	StringSeparatorAsterisk     = "*"
	StringSeparatorNewline      = "\n"
	StringSeparatorCRLF         = "\r\n"
)

// Task status reported by the state machine
const (
	TaskStateInit         = "INIT"
	TaskStateSpecBuilt    = "SPEC_BUILT"
	TaskStateCommandBuilt = "COMMAND_BUILT"
	TaskStateRunning      = "RUNNING"
	TaskStateSucceeded    = "SUCCEEDED"
	TaskStateFailed       = "FAILED"
	TaskStateCanceled     = "CANCELED"

	TaskEventBuildSpec    = "build_spec"
	TaskEventBuildCommand = "build_command"
	TaskEventRun          = "run"
	TaskEventSucceed      = "succeed"
	TaskEventFail         = "fail"
	TaskEventCancel       = "cancel"
)

// Exit codes relayed to the harness
const (
	ExitCodeSuccess = 0
	ExitCodeFailure = -1
	ExitCodeKill    = 137
)
