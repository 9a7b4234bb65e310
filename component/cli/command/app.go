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
package command

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wentaojin/dataxtask/datax"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/task"
	"go.uber.org/zap"
)

const componentName = "dataxtask"

type App struct {
	Config      string
	AppID       string
	ExecutePath string
}

func (a *App) Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:          componentName,
		Short:        "CLI dataxtask app for the datax engine",
		Long:         `Assemble the datax job document and invocation script of a task, then launch and supervise the engine`,
		RunE:         a.RunE,
		SilenceUsage: true,
	}
	c.PersistentFlags().StringVarP(&a.Config, "config", "c", "", "the task config file")
	c.PersistentFlags().StringVar(&a.AppID, "app-id", "", "the task app id, overrides the config one")
	c.PersistentFlags().StringVar(&a.ExecutePath, "execute-path", "", "the task execute path, overrides the config one")
	return c
}

func (a *App) RunE(cmd *cobra.Command, args []string) error {
	if err := cmd.Help(); err != nil {
		return err
	}
	return nil
}

// loadTask decodes the task file, installs the logger and prepares the task of this attempt
func (a *App) loadTask() (*task.ExecutionContext, *datax.Task, error) {
	if strings.EqualFold(a.Config, "") {
		return nil, nil, fmt.Errorf("flag parameter [config] are requirement, can not null")
	}
	cfg, err := task.LoadConfig(a.Config)
	if err != nil {
		return nil, nil, err
	}
	logger.NewRootLogger(cfg.Log)

	ec := cfg.ExecutionContext(a.AppID)
	if ensureAppID(ec) {
		logger.Warn("the task app id is not configured, generated one, a retry won't reuse the artifacts of this attempt",
			zap.String("task_app_id", ec.TaskAppID))
		fmt.Printf("Warning:      %s\n", color.YellowString("generated app id [%s], set app-id to reuse the artifacts on retry", ec.TaskAppID))
	}
	if a.ExecutePath != "" {
		ec.ExecutePath = a.ExecutePath
	}
	return ec, datax.NewTask(ec, cfg.Engine), nil
}

// ensureAppID generates a random app id when none is configured and reports whether it did
func ensureAppID(ec *task.ExecutionContext) bool {
	if ec.TaskAppID != "" {
		return false
	}
	ec.TaskAppID = uuid.NewString()
	return true
}

func printHeader(command string, kv ...string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Printf("Component:    %s\n", cyan.Sprint(componentName))
	fmt.Printf("Command:      %s\n", cyan.Sprint(command))
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Printf("%-14s%s\n", kv[i]+":", cyan.Sprint(kv[i+1]))
	}
}

func printFailed(err error) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Printf("Status:       %s\n", cyan.Sprint("failed"))
	fmt.Printf("Response:     %s\n", color.RedString("%v", err))
}
