//go:build !windows
// +build !windows

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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app_node.sh")
	require.NoError(t, os.WriteFile(path, []byte(content), 0755))
	return path
}

func TestShellExecutorRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	script := writeScript(t, "echo 'submitted application_1700000000000_0001'\necho 'again application_1700000000000_0001 application_1700000000000_0002' 1>&2\nexit 3\n")

	s := NewShellExecutor()
	resp, err := s.Run(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.ExitStatusCode)
	assert.Greater(t, resp.ProcessID, 0)
	assert.ElementsMatch(t, []string{"application_1700000000000_0001", "application_1700000000000_0002"}, resp.AppIDs)
	assert.NotZero(t, logs.FilterMessage("datax script output").Len())

	// cancel after exit is a no-op
	assert.NoError(t, s.Cancel())
}

func TestShellExecutorCancel(t *testing.T) {
	script := writeScript(t, "sleep 30\n")

	s := NewShellExecutor()
	done := make(chan *Response, 1)
	go func() {
		resp, err := s.Run(context.Background(), script)
		assert.NoError(t, err)
		done <- resp
	}()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.cmd != nil
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Cancel())

	select {
	case resp := <-done:
		require.NotNil(t, resp)
		assert.Equal(t, 137, resp.ExitStatusCode)
	case <-time.After(10 * time.Second):
		t.Fatal("script was not terminated")
	}
}

func TestShellExecutorCancelBeforeRun(t *testing.T) {
	s := NewShellExecutor()
	require.NoError(t, s.Cancel())

	_, err := s.Run(context.Background(), writeScript(t, "exit 0\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
