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
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/wentaojin/dataxtask/database"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/model/task"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"github.com/wentaojin/dataxtask/utils/stringutil"
	"go.uber.org/zap"
)

// JobSpec is the datax job document tree
type JobSpec map[string]any

// Marshal serializes the document with sorted keys, identical specs give identical bytes
func (j JobSpec) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(j); err != nil {
		return nil, errutil.ConfigError.Wrap(err, "the datax job document marshal failed")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte(constant.StringSeparatorNewline)), nil
}

// JobBuilder assembles the job document of one attempt, the execution context and the
// connection params are only read
type JobBuilder struct {
	ec       *task.ExecutionContext
	source   *datasource.ConnectionParams
	target   *datasource.ConnectionParams
	resolver *ColumnNameResolver
	prober   *HiveMetadataProber
}

func NewJobBuilder(ec *task.ExecutionContext, source, target *datasource.ConnectionParams, provider database.Provider) *JobBuilder {
	return &JobBuilder{
		ec:       ec,
		source:   source,
		target:   target,
		resolver: NewColumnNameResolver(provider),
		prober:   NewHiveMetadataProber(provider),
	}
}

// Build assembles the reader, writer, setting and core sections
func (b *JobBuilder) Build(ctx context.Context) (JobSpec, error) {
	if b.source == nil || b.target == nil {
		return nil, errutil.ConfigError.New("the datax task [%s] source and target connection params are required", b.ec.TaskAppID)
	}
	reader, err := b.buildReader(ctx)
	if err != nil {
		return nil, err
	}
	writer, err := b.buildWriter(ctx)
	if err != nil {
		return nil, err
	}
	return JobSpec{
		"job": map[string]any{
			"content": []any{
				map[string]any{
					"reader": reader,
					"writer": writer,
				},
			},
			"setting": b.buildSetting(),
		},
		"core": b.buildCore(),
	}, nil
}

// Render returns the job document with the placeholders replaced, the custom config json is
// used verbatim apart from line endings
func (b *JobBuilder) Render(ctx context.Context) ([]byte, error) {
	var content string
	if b.ec.Datax.CustomConfig {
		content = strings.ReplaceAll(b.ec.Datax.Json, constant.StringSeparatorCRLF, constant.StringSeparatorNewline)
	} else {
		spec, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}
		data, err := spec.Marshal()
		if err != nil {
			return nil, err
		}
		content = stringutil.BytesToString(data)
	}
	content = stringutil.ConvertParameterPlaceholders(content, b.ec.MergedParams())
	logger.Debug("datax job document rendered",
		zap.String("task_app_id", b.ec.TaskAppID),
		zap.Bool("custom_config", b.ec.Datax.CustomConfig),
		zap.Int("size", len(content)))
	return []byte(content), nil
}

func (b *JobBuilder) buildSetting() map[string]any {
	channel := b.ec.Datax.Channel
	if channel <= 0 {
		channel = constant.DataxDefaultChannel
	}
	return map[string]any{
		"speed": map[string]any{
			"channel": channel,
		},
		"errorLimit": map[string]any{
			"record":     constant.DataxDefaultErrorLimitRecord,
			"percentage": constant.DataxDefaultErrorLimitPct,
		},
	}
}

func (b *JobBuilder) buildCore() map[string]any {
	speed := make(map[string]any)
	if b.ec.Datax.JobSpeedByte > 0 {
		speed["byte"] = b.ec.Datax.JobSpeedByte
	}
	if b.ec.Datax.JobSpeedRecord > 0 {
		speed["record"] = b.ec.Datax.JobSpeedRecord
	}
	return map[string]any{
		"transport": map[string]any{
			"channel": map[string]any{
				"speed": speed,
			},
		},
	}
}

// hdfsFilePath joins the partitions under the table location, the reader globs the leaf
func hdfsFilePath(base string, partitions []string, isReader bool) string {
	path := base
	if len(partitions) > 0 {
		path = stringutil.StringJoin([]string{base, stringutil.StringJoin(partitions, constant.StringSeparatorSlash)}, constant.StringSeparatorSlash)
	}
	if isReader {
		return stringutil.StringBuilder(path, constant.StringSeparatorSlash, constant.StringSeparatorAsterisk)
	}
	return path
}

func columnType(c task.ColumnInfo) string {
	if strings.TrimSpace(c.DataType) == "" {
		return constant.DataxDefaultColumnType
	}
	return c.DataType
}

// BuildJobFile writes the job document of the attempt, an existing file is reused without
// rebuilding the document
func (b *JobBuilder) BuildJobFile(ctx context.Context) (string, error) {
	file := b.ec.JobFilePath()
	if stringutil.IsPathExist(file) {
		logger.Info("datax job file already exists, skip generation",
			zap.String("task_app_id", b.ec.TaskAppID), zap.String("file", file))
		return file, nil
	}
	data, err := b.Render(ctx)
	if err != nil {
		return "", err
	}
	if _, err = writeArtifact(b.ec.ExecutePath, file, data, constant.DataxJobFilePerm); err != nil {
		return "", err
	}
	return file, nil
}
