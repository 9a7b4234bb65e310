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
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wentaojin/dataxtask/component/cli/command"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/utils/errutil"
)

func main() {
	app := &command.App{}
	rootCmd := app.Cmd()
	rootCmd.AddCommand(
		app.AppRun().Cmd(),
		app.AppRender().Cmd(),
		app.AppEncrypt().Cmd(),
		app.AppDecrypt().Cmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()

	if err != nil {
		code := 1
		if c, ok := errutil.ExitCode(err); ok && c > 0 {
			code = c
		}
		os.Exit(code)
	}
}
