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
	"github.com/spf13/cobra"
	"github.com/wentaojin/dataxtask/component"
	"github.com/wentaojin/dataxtask/utils/configutil"
	"github.com/wentaojin/dataxtask/utils/stringutil"
)

type AppDecrypt struct {
	*App
	key  string
	data string
}

func (a *App) AppDecrypt() component.Cmder {
	return &AppDecrypt{App: a}
}

func (a *AppDecrypt) Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:              "decrypt",
		Short:            "Decrypt the datasource password",
		Long:             `Decrypt an encrypted datasource password to check it against the encryption key`,
		RunE:             a.RunE,
		TraverseChildren: true,
		SilenceUsage:     true,
	}
	cmd.Flags().StringVarP(&a.key, "key", "k", "", "the encryption key, falls back to the DATASOURCE_ENCRYPTION_KEY environment")
	cmd.Flags().StringVarP(&a.data, "data", "d", "", "the encrypted password")
	return cmd
}

func (a *AppDecrypt) RunE(cmd *cobra.Command, args []string) error {
	printHeader("decrypt")

	if strings.EqualFold(a.data, "") {
		err := fmt.Errorf("flag parameter [data] are requirement, can not null")
		printFailed(err)
		return err
	}
	key, err := encryptionKey(a.key)
	if err != nil {
		printFailed(err)
		return err
	}

	decString, err := stringutil.Decrypt(a.data, []byte(key))
	if err != nil {
		err = fmt.Errorf("error decrypt failed: %v", err)
		printFailed(err)
		return err
	}
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Printf("Status:       %s\n", cyan.Sprint("success"))
	fmt.Printf("Response:     %s\n", color.GreenString("the datasource password decrypt: %v", decString))
	return nil
}

// encryptionKey returns the flag key or the one configured in the environment
func encryptionKey(flagKey string) (string, error) {
	if flagKey != "" {
		return flagKey, nil
	}
	engine, err := configutil.DefaultEngineConfig()
	if err != nil {
		return "", err
	}
	if engine.EncryptionKey == "" {
		return "", fmt.Errorf("flag parameter [key] or env [DATASOURCE_ENCRYPTION_KEY] are requirement, can not null")
	}
	return engine.EncryptionKey, nil
}
