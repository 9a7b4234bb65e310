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
package executor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"regexp"
	"sync"

	perrors "github.com/pingcap/errors"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/utils/constant"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Response is what the runner reports back once the script exited
type Response struct {
	ExitStatusCode int
	ProcessID      int
	AppIDs         []string
}

// Runner starts an invocation script and supervises it until exit
type Runner interface {
	// Run blocks until the script exits, a non-zero exit is reported
	// through Response, the error is kept for start and io failures
	Run(ctx context.Context, script string) (*Response, error)
	// Cancel requests termination, it is a no-op before start or after exit
	Cancel() error
}

var appIDRegexp = regexp.MustCompile(constant.DataxYarnApplicationIDRegexp)

const maxLineSize = 1024 * 1024

// ShellExecutor runs the script with the platform shell in its own process group
type ShellExecutor struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	exited   bool
	canceled bool
	appIDs   []string
	seen     map[string]struct{}
}

func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{seen: make(map[string]struct{})}
}

func (s *ShellExecutor) Run(ctx context.Context, script string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := newShellCommand(script)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, perrors.Annotatef(err, "script [%s] stdout pipe", script)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, perrors.Annotatef(err, "script [%s] stderr pipe", script)
	}

	s.mu.Lock()
	if s.canceled {
		s.mu.Unlock()
		return nil, context.Canceled
	}
	if err = cmd.Start(); err != nil {
		s.mu.Unlock()
		return nil, perrors.Annotatef(err, "script [%s] start", script)
	}
	s.cmd = cmd
	s.mu.Unlock()

	pid := cmd.Process.Pid
	logger.Info("datax script started", zap.String("script", script), zap.Int("pid", pid))

	g := &errgroup.Group{}
	g.Go(func() error {
		return s.consume(script, "stdout", stdout)
	})
	g.Go(func() error {
		return s.consume(script, "stderr", stderr)
	})
	streamErr := g.Wait()
	waitErr := cmd.Wait()

	s.mu.Lock()
	s.exited = true
	canceled := s.canceled
	appIDs := append([]string(nil), s.appIDs...)
	s.mu.Unlock()

	resp := &Response{
		ExitStatusCode: constant.ExitCodeFailure,
		ProcessID:      pid,
		AppIDs:         appIDs,
	}
	if cmd.ProcessState != nil {
		resp.ExitStatusCode = cmd.ProcessState.ExitCode()
	}
	if resp.ExitStatusCode == -1 {
		// terminated by a signal
		if canceled {
			resp.ExitStatusCode = constant.ExitCodeKill
		} else {
			resp.ExitStatusCode = constant.ExitCodeFailure
		}
	}

	logger.Info("datax script exited",
		zap.String("script", script),
		zap.Int("pid", pid),
		zap.Int("exit_code", resp.ExitStatusCode),
		zap.Strings("app_ids", appIDs),
		zap.Bool("canceled", canceled))

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return resp, perrors.Annotatef(waitErr, "script [%s] wait", script)
	}
	if streamErr != nil {
		return resp, perrors.Annotatef(streamErr, "script [%s] read output", script)
	}
	return resp, nil
}

func (s *ShellExecutor) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canceled = true
	if s.cmd == nil || s.cmd.Process == nil || s.exited {
		return nil
	}
	logger.Warn("datax script cancel requested", zap.Int("pid", s.cmd.Process.Pid))
	return terminate(s.cmd)
}

func (s *ShellExecutor) consume(script, stream string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		logger.Info("datax script output", zap.String("script", script), zap.String("stream", stream), zap.String("line", line))
		s.collectAppIDs(line)
	}
	return scanner.Err()
}

func (s *ShellExecutor) collectAppIDs(line string) {
	ids := appIDRegexp.FindAllString(line, -1)
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.appIDs = append(s.appIDs, id)
	}
}
