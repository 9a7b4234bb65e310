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
	"fmt"
	"runtime"

	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/task"
	"github.com/wentaojin/dataxtask/utils/configutil"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/stringutil"
	"go.uber.org/zap"
)

const jvmParam = `--jvm="-Xms%dG -Xmx%dG"`

// CommandBuilder synthesizes the datax invocation script of one attempt
type CommandBuilder struct {
	ec     *task.ExecutionContext
	engine *configutil.EngineOptions
}

func NewCommandBuilder(ec *task.ExecutionContext, engine *configutil.EngineOptions) *CommandBuilder {
	if engine == nil {
		engine = &configutil.EngineOptions{}
	}
	return &CommandBuilder{ec: ec, engine: engine}
}

// Command returns the invocation line for the job file with the placeholders replaced
func (c *CommandBuilder) Command(jobFile string) string {
	python := c.engine.PythonHome
	if python == "" {
		python = constant.DataxDefaultPython
	}
	launcher := c.engine.DataxLauncher
	if launcher == "" {
		launcher = constant.DataxDefaultLauncher
	}
	cmd := fmt.Sprintf("%s %s %s %s", python, launcher, loadJvmEnv(c.ec.Datax), jobFile)
	return stringutil.ConvertParameterPlaceholders(cmd, c.ec.MergedParams())
}

// BuildScriptFile writes the invocation script, an existing script is returned as is
func (c *CommandBuilder) BuildScriptFile(jobFile string) (string, error) {
	file := c.ec.ScriptFilePath(scriptExt())
	if stringutil.IsPathExist(file) {
		logger.Info("datax script file already exists, skip generation",
			zap.String("task_app_id", c.ec.TaskAppID), zap.String("file", file))
		return file, nil
	}
	cmd := c.Command(jobFile)
	logger.Debug("datax raw script", zap.String("task_app_id", c.ec.TaskAppID), zap.String("command", cmd))
	if _, err := writeArtifact(c.ec.ExecutePath, file, []byte(cmd), constant.DataxScriptFilePerm); err != nil {
		return "", err
	}
	return file, nil
}

func loadJvmEnv(p *task.DataxParameters) string {
	xms, xmx := constant.DataxDefaultHeapSize, constant.DataxDefaultHeapSize
	if p != nil {
		xms = max(p.Xms, constant.DataxDefaultHeapSize)
		xmx = max(p.Xmx, constant.DataxDefaultHeapSize)
	}
	return fmt.Sprintf(jvmParam, xms, xmx)
}

func scriptExt() string {
	if runtime.GOOS == "windows" {
		return "bat"
	}
	return "sh"
}
