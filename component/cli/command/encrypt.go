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
	"github.com/wentaojin/dataxtask/utils/stringutil"
)

type AppEncrypt struct {
	*App
	key      string
	password string
}

func (a *App) AppEncrypt() component.Cmder {
	return &AppEncrypt{App: a}
}

func (a *AppEncrypt) Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:              "encrypt",
		Short:            "Encrypt the datasource password",
		Long:             `Encrypt the datasource password for the task config, the key falls back to the DATASOURCE_ENCRYPTION_KEY environment`,
		RunE:             a.RunE,
		TraverseChildren: true,
		SilenceUsage:     true,
	}
	cmd.Flags().StringVarP(&a.key, "key", "k", "", "the encryption key, 16, 24 or 32 bytes")
	cmd.Flags().StringVarP(&a.password, "password", "p", "", "the datasource password, prompted when not set")
	return cmd
}

func (a *AppEncrypt) RunE(cmd *cobra.Command, args []string) error {
	printHeader("encrypt")

	key, err := encryptionKey(a.key)
	if err != nil {
		printFailed(err)
		return err
	}

	password := a.password
	if password == "" {
		password = stringutil.PromptForPassword("Input the datasource password: ")
	}
	encrypted, err := stringutil.Encrypt(password, []byte(key))
	if err != nil {
		printFailed(err)
		return err
	}
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Printf("Status:       %s\n", cyan.Sprint("success"))
	fmt.Printf("Password:     %s\n", encrypted)
	return nil
}
