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
	"sync"

	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"github.com/wentaojin/dataxtask/utils/executor"
	"go.uber.org/zap"
)

// TaskResponse is relayed back to the caller once the engine exited
type TaskResponse struct {
	ExitStatusCode int
	ProcessID      int
	AppIDs         []string
	// Canceled is set when a cancellation was requested during the run
	Canceled bool
}

// ExecutionAdapter hands the script to the runner and turns a context cancellation into
// one runner cancel request
type ExecutionAdapter struct {
	runner executor.Runner

	mu       sync.Mutex
	once     sync.Once
	canceled bool
}

func NewExecutionAdapter(runner executor.Runner) *ExecutionAdapter {
	if runner == nil {
		runner = executor.NewShellExecutor()
	}
	return &ExecutionAdapter{runner: runner}
}

// Run blocks until the script exited, a non-zero exit code is returned as a subprocess error
func (a *ExecutionAdapter) Run(ctx context.Context, script string) (*TaskResponse, error) {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
			if err := a.Cancel(); err != nil {
				logger.Warn("datax script cancel failed", zap.String("script", script), zap.Error(err))
			}
		case <-stop:
		}
	}()

	resp, err := a.runner.Run(ctx, script)
	close(stop)
	<-done

	tr := &TaskResponse{
		ExitStatusCode: constant.ExitCodeFailure,
		Canceled:       a.isCanceled() || ctx.Err() != nil,
	}
	if resp != nil {
		tr.ExitStatusCode = resp.ExitStatusCode
		tr.ProcessID = resp.ProcessID
		tr.AppIDs = resp.AppIDs
	}
	if err != nil {
		if tr.Canceled && resp == nil {
			tr.ExitStatusCode = constant.ExitCodeKill
		}
		return tr, err
	}
	if tr.ExitStatusCode != constant.ExitCodeSuccess {
		return tr, errutil.NewSubprocessError(tr.ExitStatusCode, script)
	}
	return tr, nil
}

// Cancel asks the runner to stop the script, only the first call reaches the runner
func (a *ExecutionAdapter) Cancel() error {
	var err error
	a.once.Do(func() {
		a.mu.Lock()
		a.canceled = true
		a.mu.Unlock()
		err = a.runner.Cancel()
	})
	return err
}

func (a *ExecutionAdapter) isCanceled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canceled
}
