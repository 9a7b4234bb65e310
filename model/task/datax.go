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
	"strings"

	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
)

// DataxParameters is the per task datax mapping, it is treated as read-only once validated
type DataxParameters struct {
	// CustomConfig uses Json verbatim as the job document
	CustomConfig bool   `toml:"custom-config" json:"customConfig"`
	Json         string `toml:"json" json:"json,omitempty"`

	SourceTable string `toml:"source-table" json:"sourceTable"`
	TargetTable string `toml:"target-table" json:"targetTable"`

	// CustomSQL reads with SQL instead of the source table and derives the writer columns from it
	CustomSQL bool   `toml:"custom-sql" json:"customSql"`
	SQL       string `toml:"sql" json:"sql,omitempty"`

	Where   string `toml:"where" json:"where,omitempty"`
	SplitPk string `toml:"split-pk" json:"splitPk,omitempty"`

	DsColumns    []ColumnInfo `toml:"ds-columns" json:"dsColumns"`
	DtColumns    []ColumnInfo `toml:"dt-columns" json:"dtColumns"`
	DsPartitions []string     `toml:"ds-partitions" json:"dsPartitions,omitempty"`
	DtPartitions []string     `toml:"dt-partitions" json:"dtPartitions,omitempty"`

	PreStatements  []string `toml:"pre-statements" json:"preStatements,omitempty"`
	PostStatements []string `toml:"post-statements" json:"postStatements,omitempty"`

	WriteMode string `toml:"write-mode" json:"writeMode,omitempty"`
	BatchSize int    `toml:"batch-size" json:"batchSize,omitempty"`

	JobSpeedByte   int64 `toml:"job-speed-byte" json:"jobSpeedByte,omitempty"`
	JobSpeedRecord int64 `toml:"job-speed-record" json:"jobSpeedRecord,omitempty"`
	Channel        int   `toml:"channel" json:"channel,omitempty"`

	Xms int `toml:"xms" json:"xms,omitempty"`
	Xmx int `toml:"xmx" json:"xmx,omitempty"`

	ElasticSearch *ElasticSearchParams `toml:"elasticsearch" json:"elasticSearch,omitempty"`
}

// ColumnInfo is one column mapping entry
type ColumnInfo struct {
	ColumnName string `toml:"name" json:"columnName"`
	// Index is the positional hive column, nil reads ColumnName as a constant value
	Index    *int   `toml:"index" json:"index,omitempty"`
	DataType string `toml:"type" json:"dataType,omitempty"`
	// Enable nil means enabled
	Enable *bool `toml:"enable" json:"enable,omitempty"`
	// Json replaces the generated elasticsearch writer column entry
	Json string `toml:"json" json:"json,omitempty"`
}

func (c ColumnInfo) IsEnable() bool {
	return c.Enable == nil || *c.Enable
}

// EnabledColumns keeps the enabled entries in their original order
func EnabledColumns(cols []ColumnInfo) []ColumnInfo {
	enabled := make([]ColumnInfo, 0, len(cols))
	for _, c := range cols {
		if c.IsEnable() {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

// ElasticSearchParams are the elasticsearch writer tuning knobs, zero values and nil
// pointers are left out of the job document
type ElasticSearchParams struct {
	Index            string `toml:"index" json:"index"`
	Type             string `toml:"type" json:"type,omitempty"`
	CleanUp          *bool  `toml:"cleanup" json:"cleanup,omitempty"`
	TrySize          int    `toml:"try-size" json:"trySize,omitempty"`
	Timeout          int    `toml:"timeout" json:"timeout,omitempty"`
	Discovery        *bool  `toml:"discovery" json:"discovery,omitempty"`
	Compression      *bool  `toml:"compression" json:"compression,omitempty"`
	MultiThread      *bool  `toml:"multi-thread" json:"multiThread,omitempty"`
	IgnoreWriteError *bool  `toml:"ignore-write-error" json:"ignoreWriteError,omitempty"`
	IgnoreParseError *bool  `toml:"ignore-parse-error" json:"ignoreParseError,omitempty"`
	Alias            string `toml:"alias" json:"alias,omitempty"`
	AliasMode        string `toml:"alias-mode" json:"aliasMode,omitempty"`
	Settings         string `toml:"settings" json:"settings,omitempty"`
	Splitter         string `toml:"splitter" json:"splitter,omitempty"`
	Dynamic          *bool  `toml:"dynamic" json:"dynamic,omitempty"`
}

const (
	AliasModeAppend    = "append"
	AliasModeExclusive = "exclusive"
)

// NormalizeAliasMode maps the configured alias mode, empty defaults to append
func NormalizeAliasMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", AliasModeAppend:
		return AliasModeAppend, nil
	case AliasModeExclusive:
		return AliasModeExclusive, nil
	default:
		return "", errutil.ConfigError.New("the elasticsearch alias mode [%s] is not supported", mode)
	}
}

// NormalizeWriteMode maps the configured write mode for the target store, empty falls back to
// insert for relational stores and append for hive
func NormalizeWriteMode(target datasource.StoreType, mode string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	switch target {
	case datasource.StoreTypeHive:
		switch m {
		case "", strings.ToLower(constant.DataxHiveWriteModeAppend):
			return constant.DataxHiveWriteModeAppend, nil
		case strings.ToLower(constant.DataxHiveWriteModeNonConflict):
			return constant.DataxHiveWriteModeNonConflict, nil
		case strings.ToLower(constant.DataxHiveWriteModeTruncate):
			return constant.DataxHiveWriteModeTruncate, nil
		}
	case datasource.StoreTypeMySQL, datasource.StoreTypePostgreSQL, datasource.StoreTypeOracle,
		datasource.StoreTypeSQLServer, datasource.StoreTypeDM, datasource.StoreTypeClickHouse:
		switch m {
		case "", constant.DataxWriteModeInsert:
			return constant.DataxWriteModeInsert, nil
		case constant.DataxWriteModeReplace, constant.DataxWriteModeUpdate:
			return m, nil
		}
	case datasource.StoreTypeElasticsearch, datasource.StoreTypeUnknown:
		return "", nil
	}
	return "", errutil.ConfigError.New("the write mode [%s] is not supported by target [%s]", mode, target)
}

// Validate rejects parameters no job document can be built from, it runs before any artifact is written
func (p *DataxParameters) Validate(source, target datasource.StoreType) error {
	if p == nil {
		return errutil.ConfigError.New("the datax parameters are missing")
	}
	if p.CustomConfig {
		if strings.TrimSpace(p.Json) == "" {
			return errutil.ConfigError.New("the datax custom config json is empty")
		}
		return nil
	}
	if _, err := source.ReaderPlugin(); err != nil {
		return err
	}
	if _, err := target.WriterPlugin(); err != nil {
		return err
	}
	if p.CustomSQL {
		if strings.TrimSpace(p.SQL) == "" {
			return errutil.ConfigError.New("the datax custom sql is empty")
		}
		if !source.IsRelational() {
			return errutil.ConfigError.New("the datax custom sql isn't supported by source [%s]", source)
		}
	} else if strings.TrimSpace(p.SourceTable) == "" {
		return errutil.ConfigError.New("the datax source table is empty")
	}
	if target == datasource.StoreTypeElasticsearch {
		if p.ElasticSearch == nil || strings.TrimSpace(p.ElasticSearch.Index) == "" {
			return errutil.ConfigError.New("the datax elasticsearch writer index is empty")
		}
		if p.ElasticSearch.Alias != "" {
			if _, err := NormalizeAliasMode(p.ElasticSearch.AliasMode); err != nil {
				return err
			}
		}
	} else if strings.TrimSpace(p.TargetTable) == "" {
		return errutil.ConfigError.New("the datax target table is empty")
	}
	if _, err := NormalizeWriteMode(target, p.WriteMode); err != nil {
		return err
	}
	if p.Channel < 0 || p.BatchSize < 0 || p.JobSpeedByte < 0 || p.JobSpeedRecord < 0 {
		return errutil.ConfigError.New("the datax channel [%d], batch size [%d], speed byte [%d] and speed record [%d] can't be negative",
			p.Channel, p.BatchSize, p.JobSpeedByte, p.JobSpeedRecord)
	}
	for _, c := range p.DsColumns {
		if c.IsEnable() && strings.TrimSpace(c.ColumnName) == "" && c.Index == nil {
			return errutil.ConfigError.New("the datax source column name is empty")
		}
	}
	return nil
}
