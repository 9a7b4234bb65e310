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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wentaojin/dataxtask/model/task"
	"github.com/wentaojin/dataxtask/utils/configutil"
)

func TestLoadJvmEnv(t *testing.T) {
	tests := []struct {
		name string
		p    *task.DataxParameters
		want string
	}{
		{"unset", &task.DataxParameters{}, `--jvm="-Xms1G -Xmx1G"`},
		{"configured", &task.DataxParameters{Xms: 2, Xmx: 8}, `--jvm="-Xms2G -Xmx8G"`},
		{"floored", &task.DataxParameters{Xms: -3, Xmx: 0}, `--jvm="-Xms1G -Xmx1G"`},
		{"nil", nil, `--jvm="-Xms1G -Xmx1G"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loadJvmEnv(tt.p); got != tt.want {
				t.Errorf("loadJvmEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommandBuilderCommand(t *testing.T) {
	ec := &task.ExecutionContext{
		TaskAppID:    "2_1",
		ExecutePath:  "/data/exec/${dt}",
		Datax:        &task.DataxParameters{Xmx: 4},
		GlobalParams: map[string]string{"dt": "20240101"},
	}
	b := NewCommandBuilder(ec, (&configutil.EngineOptions{}).Apply(configutil.WithPythonHome("/usr/bin/python3")))
	assert.Equal(t,
		`/usr/bin/python3 ${DATAX_HOME}/bin/datax.py --jvm="-Xms1G -Xmx4G" /data/exec/20240101/2_1_job.json`,
		b.Command("/data/exec/${dt}/2_1_job.json"))

	b = NewCommandBuilder(ec, (&configutil.EngineOptions{}).Apply(configutil.WithDataxLauncher("/opt/datax/bin/datax.py")))
	assert.Equal(t,
		`python /opt/datax/bin/datax.py --jvm="-Xms1G -Xmx4G" job.json`,
		b.Command("job.json"))
}

func TestCommandBuilderBuildScriptFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exec")
	ec := &task.ExecutionContext{
		TaskAppID:   "2_2",
		ExecutePath: dir,
		Datax:       &task.DataxParameters{Xms: 2, Xmx: 2},
	}
	b := NewCommandBuilder(ec, nil)
	jobFile := ec.JobFilePath()

	file, err := b.BuildScriptFile(jobFile)
	require.NoError(t, err)
	assert.Equal(t, ec.ScriptFilePath(scriptExt()), file)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, b.Command(jobFile), string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(file)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}

	// an existing script is never rewritten
	require.NoError(t, os.WriteFile(file, []byte("edited"), 0755))
	again, err := NewCommandBuilder(ec, nil).BuildScriptFile(jobFile)
	require.NoError(t, err)
	assert.Equal(t, file, again)
	data, err = os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))
}
