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

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wentaojin/dataxtask/component"
)

type AppRender struct {
	*App
}

func (a *App) AppRender() component.Cmder {
	return &AppRender{App: a}
}

func (a *AppRender) Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:              "render",
		Short:            "Render the datax task artifacts",
		Long:             `Write the job document and the invocation script of the task without starting the datax engine`,
		RunE:             a.RunE,
		TraverseChildren: true,
		SilenceUsage:     true,
	}
	return cmd
}

func (a *AppRender) RunE(cmd *cobra.Command, args []string) error {
	printHeader("render", "Config", a.Config)

	ec, dt, err := a.loadTask()
	if err != nil {
		printFailed(err)
		return err
	}
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Printf("Task:         %s\n", cyan.Sprint(ec.TaskAppID))

	jobFile, err := dt.BuildJobFile(cmd.Context())
	if err != nil {
		printFailed(err)
		return err
	}
	scriptFile, err := dt.BuildScriptFile(cmd.Context())
	if err != nil {
		printFailed(err)
		return err
	}
	fmt.Printf("Job File:     %s\n", cyan.Sprint(jobFile))
	fmt.Printf("Script File:  %s\n", cyan.Sprint(scriptFile))
	fmt.Printf("Status:       %s\n", cyan.Sprint("success"))
	return nil
}
