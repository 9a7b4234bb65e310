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
package configutil

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wentaojin/dataxtask/utils/constant"
)

// EngineOptions datax engine relative config items, read from the environment
// first and overridden by the [engine] section of the task file
type EngineOptions struct {
	// PythonHome the interpreter used to start the launcher, a bare command or an absolute path
	PythonHome string `toml:"python-home" json:"python-home" env:"PYTHON_HOME" env-default:"python"`
	// DataxLauncher is left with the ${DATAX_HOME} reference when not overridden, the script shell expands it
	DataxLauncher string `toml:"datax-launcher" json:"datax-launcher" env:"DATAX_LAUNCHER" env-default:"${DATAX_HOME}/bin/datax.py"`
	// EncryptionKey decodes datasource passwords, empty means passwords are stored in plain text
	EncryptionKey string `toml:"-" json:"-" env:"DATASOURCE_ENCRYPTION_KEY"`
}

type EngineOption func(opts *EngineOptions)

// DefaultEngineConfig reads the engine options from the process environment
func DefaultEngineConfig() (*EngineOptions, error) {
	opts := &EngineOptions{}
	if err := cleanenv.ReadEnv(opts); err != nil {
		return nil, fmt.Errorf("the engine options read environment failed, error: [%v]", err)
	}
	if opts.PythonHome == "" {
		opts.PythonHome = constant.DataxDefaultPython
	}
	if opts.DataxLauncher == "" {
		opts.DataxLauncher = constant.DataxDefaultLauncher
	}
	return opts, nil
}

func WithPythonHome(python string) EngineOption {
	return func(opts *EngineOptions) {
		opts.PythonHome = python
	}
}

func WithDataxLauncher(launcher string) EngineOption {
	return func(opts *EngineOptions) {
		opts.DataxLauncher = launcher
	}
}

func WithEncryptionKey(key string) EngineOption {
	return func(opts *EngineOptions) {
		opts.EncryptionKey = key
	}
}

// Apply overrides the options in order
func (e *EngineOptions) Apply(opts ...EngineOption) *EngineOptions {
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EncryptionKeyBytes returns nil when password encryption is disabled
func (e *EngineOptions) EncryptionKeyBytes() []byte {
	if e.EncryptionKey == "" {
		return nil
	}
	return []byte(e.EncryptionKey)
}

func (e *EngineOptions) String() string {
	return fmt.Sprintf("python-home: [%s], datax-launcher: [%s], encryption: [%v]", e.PythonHome, e.DataxLauncher, e.EncryptionKey != "")
}
