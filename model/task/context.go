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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"github.com/wentaojin/dataxtask/utils/stringutil"
)

// ExecutionContext is handed over by the harness for one task attempt
type ExecutionContext struct {
	TaskAppID   string
	ExecutePath string
	Source      *datasource.Datasource
	Target      *datasource.Datasource
	Datax       *DataxParameters
	// GlobalParams come from the workflow, LocalParams from the task and win on key collision
	GlobalParams map[string]string
	LocalParams  map[string]string
}

func (e *ExecutionContext) Validate() error {
	if e == nil {
		return errutil.ConfigError.New("the task execution context is missing")
	}
	if strings.TrimSpace(e.TaskAppID) == "" {
		return errutil.ConfigError.New("the task app id is empty")
	}
	if strings.ContainsAny(e.TaskAppID, `/\`) {
		return errutil.ConfigError.New("the task app id [%s] can't contain a path separator", e.TaskAppID)
	}
	if strings.TrimSpace(e.ExecutePath) == "" {
		return errutil.ConfigError.New("the task execute path is empty")
	}
	if e.Datax == nil {
		return errutil.ConfigError.New("the datax parameters are missing")
	}
	if e.Datax.CustomConfig {
		return e.Datax.Validate(datasource.StoreTypeUnknown, datasource.StoreTypeUnknown)
	}
	if e.Source == nil || e.Target == nil {
		return errutil.ConfigError.New("the datax source and target datasource are required")
	}
	return e.Datax.Validate(e.Source.Type, e.Target.Type)
}

// MergedParams returns the placeholder values, local params override global ones
func (e *ExecutionContext) MergedParams() map[string]string {
	return stringutil.ExchangeStringDict(e.LocalParams, e.GlobalParams)
}

// JobFilePath is the deterministic job document path of the attempt
func (e *ExecutionContext) JobFilePath() string {
	return filepath.Join(e.ExecutePath, stringutil.StringBuilder(e.TaskAppID, constant.DataxJobFileSuffix))
}

// ScriptFilePath is the deterministic invocation script path, ext is sh or bat
func (e *ExecutionContext) ScriptFilePath(ext string) string {
	return filepath.Join(e.ExecutePath, fmt.Sprintf("%s%s.%s", e.TaskAppID, constant.DataxScriptFileSuffix, ext))
}
