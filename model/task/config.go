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
	"encoding/json"

	"github.com/BurntSushi/toml"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/configutil"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"github.com/wentaojin/dataxtask/utils/stringutil"
	"go.uber.org/zap"
)

// Config is the datax task file
type Config struct {
	TaskAppID   string `toml:"app-id" json:"appId"`
	ExecutePath string `toml:"execute-path" json:"executePath"`

	Log    *logger.Config            `toml:"log" json:"log"`
	Engine *configutil.EngineOptions `toml:"engine" json:"engine"`

	Source datasource.Datasource `toml:"source" json:"source"`
	Target datasource.Datasource `toml:"target" json:"target"`
	Datax  DataxParameters       `toml:"datax" json:"datax"`

	Params      map[string]string `toml:"params" json:"params,omitempty"`
	LocalParams map[string]string `toml:"local-params" json:"localParams,omitempty"`
}

// LoadConfig reads the engine options from the environment then decodes the task file over them
func LoadConfig(file string) (*Config, error) {
	engine, err := configutil.DefaultEngineConfig()
	if err != nil {
		return nil, errutil.ConfigError.Wrap(err, "the task config [%s] engine options", file)
	}
	cfg := &Config{
		Log:    logger.DefaultConfig(),
		Engine: engine,
	}
	md, err := toml.DecodeFile(file, cfg)
	if err != nil {
		return nil, errutil.ConfigError.Wrap(err, "the task config [%s] decode failed", file)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		logger.Warn("the task config has unknown keys, ignored", zap.Strings("keys", keys))
	}
	return cfg, nil
}

// ExecutionContext builds the execution context of one attempt, appID overrides the file one when set
func (c *Config) ExecutionContext(appID string) *ExecutionContext {
	if appID == "" {
		appID = c.TaskAppID
	}
	source, target := c.Source, c.Target
	datax := c.Datax
	return &ExecutionContext{
		TaskAppID:    appID,
		ExecutePath:  c.ExecutePath,
		Source:       &source,
		Target:       &target,
		Datax:        &datax,
		GlobalParams: c.Params,
		LocalParams:  c.LocalParams,
	}
}

func (c *Config) String() string {
	cfg, err := json.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return stringutil.BytesToString(cfg)
}
