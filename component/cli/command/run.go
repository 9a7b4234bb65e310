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
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wentaojin/dataxtask/component"
	"github.com/wentaojin/dataxtask/datax"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/stringutil"
)

type AppRun struct {
	*App
}

func (a *App) AppRun() component.Cmder {
	return &AppRun{App: a}
}

func (a *AppRun) Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:              "run",
		Short:            "Run the datax task",
		Long:             `Build the job document and the invocation script, then run the datax engine until it exits`,
		RunE:             a.RunE,
		TraverseChildren: true,
		SilenceUsage:     true,
	}
	return cmd
}

func (a *AppRun) RunE(cmd *cobra.Command, args []string) error {
	printHeader("run", "Config", a.Config)

	ec, dt, err := a.loadTask()
	if err != nil {
		printFailed(err)
		return err
	}
	fmt.Printf("Task:         %s\n", color.New(color.FgCyan, color.Bold).Sprint(ec.TaskAppID))

	resp, err := dt.Handle(cmd.Context())
	if resp != nil {
		printResponse(dt, resp)
	}
	if err != nil {
		printFailed(err)
		return err
	}
	fmt.Printf("Status:       %s\n", color.New(color.FgCyan, color.Bold).Sprint("success"))
	return nil
}

func printResponse(dt *datax.Task, resp *datax.TaskResponse) {
	appIDs := stringutil.StringJoin(resp.AppIDs, constant.StringSeparatorComma)
	stringutil.PrintTable([][]string{
		{"State", "Exit Code", "Process ID", "Application IDs"},
		{dt.State(), strconv.Itoa(resp.ExitStatusCode), strconv.Itoa(resp.ProcessID), appIDs},
	}, true)
}
