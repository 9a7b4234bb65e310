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

	"github.com/looplab/fsm"
	"github.com/wentaojin/dataxtask/database"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/model/task"
	"github.com/wentaojin/dataxtask/utils/configutil"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"github.com/wentaojin/dataxtask/utils/executor"
	"github.com/wentaojin/dataxtask/utils/stringutil"
	"go.uber.org/zap"
)

// Task drives one datax task attempt from the execution context to the engine exit
type Task struct {
	ec       *task.ExecutionContext
	engine   *configutil.EngineOptions
	provider database.Provider
	adapter  *ExecutionAdapter
	fsm      *fsm.FSM

	jobBuilder *JobBuilder
	cmdBuilder *CommandBuilder
	jobFile    string
	scriptFile string
}

type Option func(t *Task)

// WithProvider replaces the connection provider used by the probes
func WithProvider(provider database.Provider) Option {
	return func(t *Task) {
		t.provider = provider
	}
}

// WithRunner replaces the subprocess runner
func WithRunner(runner executor.Runner) Option {
	return func(t *Task) {
		t.adapter = NewExecutionAdapter(runner)
	}
}

func NewTask(ec *task.ExecutionContext, engine *configutil.EngineOptions, opts ...Option) *Task {
	t := &Task{
		ec:       ec,
		engine:   engine,
		provider: database.DefaultProvider,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.engine == nil {
		t.engine = &configutil.EngineOptions{}
	}
	if t.adapter == nil {
		t.adapter = NewExecutionAdapter(nil)
	}
	t.fsm = newTaskFSM(t.taskAppID())
	return t
}

func newTaskFSM(taskAppID string) *fsm.FSM {
	return fsm.NewFSM(
		constant.TaskStateInit,
		fsm.Events{
			{Name: constant.TaskEventBuildSpec, Src: []string{constant.TaskStateInit}, Dst: constant.TaskStateSpecBuilt},
			{Name: constant.TaskEventBuildCommand, Src: []string{constant.TaskStateInit, constant.TaskStateSpecBuilt}, Dst: constant.TaskStateCommandBuilt},
			{Name: constant.TaskEventRun, Src: []string{constant.TaskStateInit, constant.TaskStateSpecBuilt, constant.TaskStateCommandBuilt}, Dst: constant.TaskStateRunning},
			{Name: constant.TaskEventSucceed, Src: []string{constant.TaskStateRunning}, Dst: constant.TaskStateSucceeded},
			{Name: constant.TaskEventFail, Src: []string{constant.TaskStateInit, constant.TaskStateSpecBuilt, constant.TaskStateCommandBuilt, constant.TaskStateRunning}, Dst: constant.TaskStateFailed},
			{Name: constant.TaskEventCancel, Src: []string{constant.TaskStateRunning}, Dst: constant.TaskStateCanceled},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Info("datax task state changed",
					zap.String("task_app_id", taskAppID),
					zap.String("event", e.Event),
					zap.String("from", e.Src),
					zap.String("to", e.Dst))
			},
		},
	)
}

// State returns the current lifecycle state
func (t *Task) State() string {
	return t.fsm.Current()
}

// Init validates the execution context and decodes both connections once per attempt
func (t *Task) Init() error {
	if t.jobBuilder != nil {
		return nil
	}
	if err := t.ec.Validate(); err != nil {
		return err
	}

	var source, target *datasource.ConnectionParams
	if !t.ec.Datax.CustomConfig {
		key := t.engine.EncryptionKeyBytes()
		var err error
		source, err = datasource.BuildConnectionParams(t.ec.Source, key)
		if err != nil {
			return err
		}
		target, err = datasource.BuildConnectionParams(t.ec.Target, key)
		if err != nil {
			return err
		}
	}
	t.jobBuilder = NewJobBuilder(t.ec, source, target, t.provider)
	t.cmdBuilder = NewCommandBuilder(t.ec, t.engine)

	logger.Info("datax task init",
		zap.String("task_app_id", t.ec.TaskAppID),
		zap.String("execute_path", t.ec.ExecutePath),
		zap.Bool("custom_config", t.ec.Datax.CustomConfig),
		zap.String("engine", t.engine.String()))
	return nil
}

// BuildJobFile produces the job document artifact
func (t *Task) BuildJobFile(ctx context.Context) (string, error) {
	if t.jobFile != "" {
		return t.jobFile, nil
	}
	if err := t.Init(); err != nil {
		return "", t.failed(err)
	}
	file, err := t.jobBuilder.BuildJobFile(ctx)
	if err != nil {
		return "", t.failed(err)
	}
	if err = t.event(constant.TaskEventBuildSpec); err != nil {
		return "", err
	}
	t.jobFile = file
	return file, nil
}

// BuildScriptFile produces the invocation script, a job file left by a previous attempt is reused
func (t *Task) BuildScriptFile(ctx context.Context) (string, error) {
	if t.scriptFile != "" {
		return t.scriptFile, nil
	}
	if err := t.Init(); err != nil {
		return "", t.failed(err)
	}
	jobFile := t.jobFile
	if jobFile == "" {
		jobFile = t.ec.JobFilePath()
		if stringutil.IsPathNotExist(jobFile) {
			return "", t.failed(errutil.ConfigError.New("the datax job file [%s] is not generated yet", jobFile))
		}
	}
	file, err := t.cmdBuilder.BuildScriptFile(jobFile)
	if err != nil {
		return "", t.failed(err)
	}
	if err = t.event(constant.TaskEventBuildCommand); err != nil {
		return "", err
	}
	t.scriptFile = file
	return file, nil
}

// Run starts the engine and waits for it, a script left by a previous attempt is reused
func (t *Task) Run(ctx context.Context) (*TaskResponse, error) {
	script := t.scriptFile
	if script == "" {
		script = t.ec.ScriptFilePath(scriptExt())
		if stringutil.IsPathNotExist(script) {
			return nil, t.failed(errutil.ConfigError.New("the datax script file [%s] is not generated yet", script))
		}
	}
	if err := t.event(constant.TaskEventRun); err != nil {
		return nil, err
	}

	resp, err := t.adapter.Run(ctx, script)
	switch {
	case err == nil:
		logger.Info("datax task succeeded",
			zap.String("task_app_id", t.ec.TaskAppID),
			zap.Int("pid", resp.ProcessID),
			zap.Strings("app_ids", resp.AppIDs))
		if evtErr := t.event(constant.TaskEventSucceed); evtErr != nil {
			return resp, evtErr
		}
	case resp != nil && resp.Canceled:
		logger.Warn("datax task canceled",
			zap.String("task_app_id", t.ec.TaskAppID),
			zap.Int("exit_code", resp.ExitStatusCode),
			zap.Error(err))
		if evtErr := t.event(constant.TaskEventCancel); evtErr != nil {
			return resp, evtErr
		}
	default:
		return resp, t.failed(err)
	}
	return resp, err
}

// Handle runs the whole attempt: job document, script, then the engine
func (t *Task) Handle(ctx context.Context) (*TaskResponse, error) {
	jobFile, err := t.BuildJobFile(ctx)
	if err != nil {
		return nil, err
	}
	if _, err = t.BuildScriptFile(ctx); err != nil {
		return nil, err
	}
	logger.Info("datax task start running",
		zap.String("task_app_id", t.ec.TaskAppID),
		zap.String("job_file", jobFile),
		zap.String("script_file", t.scriptFile))
	return t.Run(ctx)
}

// Cancel requests the running engine to stop, it is a no-op once the task reached a final state
func (t *Task) Cancel() error {
	switch t.State() {
	case constant.TaskStateSucceeded, constant.TaskStateFailed, constant.TaskStateCanceled:
		return nil
	}
	logger.Warn("datax task cancel requested",
		zap.String("task_app_id", t.taskAppID()), zap.String("state", t.State()))
	return t.adapter.Cancel()
}

// failed logs the error at the task boundary and moves the task to the failed state
func (t *Task) failed(err error) error {
	logger.Error("datax task failed",
		zap.String("task_app_id", t.taskAppID()),
		zap.String("state", t.State()),
		zap.Error(err))
	if t.fsm.Can(constant.TaskEventFail) {
		if evtErr := t.event(constant.TaskEventFail); evtErr != nil {
			logger.Warn("datax task state change failed", zap.String("task_app_id", t.taskAppID()), zap.Error(evtErr))
		}
	}
	return err
}

func (t *Task) event(name string) error {
	if err := t.fsm.Event(context.Background(), name); err != nil {
		return errutil.ConfigError.Wrap(err, "the datax task [%s] can't %s in state [%s]", t.taskAppID(), name, t.State())
	}
	return nil
}

func (t *Task) taskAppID() string {
	if t.ec == nil {
		return ""
	}
	return t.ec.TaskAppID
}
