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
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wentaojin/dataxtask/model/task"
	"github.com/wentaojin/dataxtask/utils/configutil"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"github.com/wentaojin/dataxtask/utils/executor"
)

func customConfigContext(t *testing.T, appID string) *task.ExecutionContext {
	return &task.ExecutionContext{
		TaskAppID:   appID,
		ExecutePath: t.TempDir(),
		Datax: &task.DataxParameters{
			CustomConfig: true,
			Json:         `{"job":{"content":[]}}`,
			Xmx:          2,
		},
	}
}

func TestTaskHandleSucceeded(t *testing.T) {
	ec := customConfigContext(t, "3_1")
	runner := newFakeRunner(&executor.Response{ProcessID: 11, AppIDs: []string{"application_1700000000000_0001"}}, false)
	dt := NewTask(ec, nil, WithRunner(runner))
	assert.Equal(t, constant.TaskStateInit, dt.State())

	resp, err := dt.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constant.TaskStateSucceeded, dt.State())
	assert.Equal(t, []string{"application_1700000000000_0001"}, resp.AppIDs)
	assert.Equal(t, []string{ec.ScriptFilePath(scriptExt())}, runner.Scripts())

	job, err := os.ReadFile(ec.JobFilePath())
	require.NoError(t, err)
	assert.Equal(t, `{"job":{"content":[]}}`, string(job))
	script, err := os.ReadFile(ec.ScriptFilePath(scriptExt()))
	require.NoError(t, err)
	assert.Contains(t, string(script), `--jvm="-Xms1G -Xmx2G" `+ec.JobFilePath())

	// final state, cancel is a no-op
	require.NoError(t, dt.Cancel())
	assert.Equal(t, 0, runner.Cancels())
}

func TestTaskHandleFailed(t *testing.T) {
	ec := customConfigContext(t, "3_2")
	runner := newFakeRunner(&executor.Response{ExitStatusCode: 1}, false)
	dt := NewTask(ec, nil, WithRunner(runner))

	resp, err := dt.Handle(context.Background())
	require.Error(t, err)
	assert.True(t, errutil.IsSubprocessError(err), err.Error())
	assert.Equal(t, 1, resp.ExitStatusCode)
	assert.Equal(t, constant.TaskStateFailed, dt.State())
}

func TestTaskHandleCanceled(t *testing.T) {
	ec := customConfigContext(t, "3_3")
	runner := newFakeRunner(&executor.Response{ProcessID: 5}, true)
	dt := NewTask(ec, nil, WithRunner(runner))

	go func() {
		<-runner.started
		_ = dt.Cancel()
	}()
	resp, err := dt.Handle(context.Background())
	require.Error(t, err)
	assert.True(t, resp.Canceled)
	assert.Equal(t, constant.ExitCodeKill, resp.ExitStatusCode)
	assert.Equal(t, constant.TaskStateCanceled, dt.State())
	assert.Equal(t, 1, runner.Cancels())
}

func TestTaskInvalidContext(t *testing.T) {
	ec := customConfigContext(t, "3_4")
	ec.Datax.Json = ""
	runner := newFakeRunner(&executor.Response{}, false)
	dt := NewTask(ec, nil, WithRunner(runner))

	_, err := dt.Handle(context.Background())
	require.Error(t, err)
	assert.True(t, errutil.IsConfigError(err), err.Error())
	assert.Equal(t, constant.TaskStateFailed, dt.State())
	assert.Empty(t, runner.Scripts())
	assert.NoFileExists(t, ec.JobFilePath())
}

func TestTaskPasswordDecodeFailed(t *testing.T) {
	ec := &task.ExecutionContext{
		TaskAppID:   "3_5",
		ExecutePath: t.TempDir(),
		Source:      mysqlDatasource(t),
		Target:      mysqlDatasource(t),
		Datax:       &task.DataxParameters{SourceTable: "a", TargetTable: "b"},
	}
	ec.Source.Password = "not-a-ciphertext"
	engine := (&configutil.EngineOptions{}).Apply(configutil.WithEncryptionKey(string(testKey)))
	dt := NewTask(ec, engine, WithRunner(newFakeRunner(&executor.Response{}, false)))

	_, err := dt.BuildJobFile(context.Background())
	require.Error(t, err)
	assert.True(t, errutil.IsConfigError(err), err.Error())
	assert.Equal(t, constant.TaskStateFailed, dt.State())
}

func TestTaskStepsAndRetry(t *testing.T) {
	ec := &task.ExecutionContext{
		TaskAppID:   "3_6",
		ExecutePath: t.TempDir(),
		Source:      mysqlDatasource(t),
		Target:      postgresDatasource(t),
		Datax:       &task.DataxParameters{SourceTable: "a", TargetTable: "b"},
	}
	engine := (&configutil.EngineOptions{}).Apply(configutil.WithEncryptionKey(string(testKey)))
	dt := NewTask(ec, engine, WithRunner(newFakeRunner(&executor.Response{}, false)))

	jobFile, err := dt.BuildJobFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constant.TaskStateSpecBuilt, dt.State())
	job, err := os.ReadFile(jobFile)
	require.NoError(t, err)
	assert.Contains(t, string(job), "mysql-secret")

	_, err = dt.BuildScriptFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constant.TaskStateCommandBuilt, dt.State())

	// a restarted attempt runs the artifacts left on disk
	runner := newFakeRunner(&executor.Response{}, false)
	retry := NewTask(ec, engine, WithRunner(runner), WithProvider(&countingProvider{}))
	_, err = retry.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constant.TaskStateSucceeded, retry.State())
	assert.Equal(t, []string{ec.ScriptFilePath(scriptExt())}, runner.Scripts())

	reread, err := os.ReadFile(jobFile)
	require.NoError(t, err)
	assert.Equal(t, job, reread)
}

func TestTaskRunWithoutScript(t *testing.T) {
	ec := customConfigContext(t, "3_7")
	dt := NewTask(ec, nil, WithRunner(newFakeRunner(&executor.Response{}, false)))

	_, err := dt.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errutil.IsConfigError(err), err.Error())
	assert.Equal(t, constant.TaskStateFailed, dt.State())
}

func TestTaskBuildScriptFromExistingJob(t *testing.T) {
	ec := customConfigContext(t, "3_8")
	require.NoError(t, os.WriteFile(ec.JobFilePath(), []byte(`{"job":{}}`), 0600))

	dt := NewTask(ec, nil, WithRunner(newFakeRunner(&executor.Response{}, false)))
	_, err := dt.BuildScriptFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constant.TaskStateCommandBuilt, dt.State())

	_, err = dt.BuildJobFile(context.Background())
	require.Error(t, err)
	assert.Equal(t, constant.TaskStateCommandBuilt, dt.State())
}
