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
package errutil

import (
	"github.com/joomcode/errorx"
)

var (
	Namespace = errorx.NewNamespace("datax")

	// ConfigError missing or malformed connection or task parameters, never retried
	ConfigError = Namespace.NewType("config")
	// ColumnResolutionError both the syntactic and the probe stage returned no column
	ColumnResolutionError = Namespace.NewType("column_resolution")
	// MetadataParseError unsupported hive storage format or unresolvable delimiter
	MetadataParseError = Namespace.NewType("metadata_parse")
	// SubprocessError the datax engine exited with a non-zero status
	SubprocessError = Namespace.NewType("subprocess")
)

var PropertyExitCode = errorx.RegisterProperty("exit_code")

func IsConfigError(err error) bool {
	return errorx.IsOfType(err, ConfigError)
}

func IsColumnResolutionError(err error) bool {
	return errorx.IsOfType(err, ColumnResolutionError)
}

func IsMetadataParseError(err error) bool {
	return errorx.IsOfType(err, MetadataParseError)
}

func IsSubprocessError(err error) bool {
	return errorx.IsOfType(err, SubprocessError)
}

// NewSubprocessError returns a subprocess error carrying the engine exit code
func NewSubprocessError(exitCode int, script string) error {
	return SubprocessError.New("datax script [%s] exited with code [%d]", script, exitCode).
		WithProperty(PropertyExitCode, exitCode)
}

// ExitCode extracts the exit code recorded on a subprocess error
func ExitCode(err error) (int, bool) {
	v, ok := errorx.ExtractProperty(err, PropertyExitCode)
	if !ok {
		return 0, false
	}
	code, ok := v.(int)
	return code, ok
}
