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

	"github.com/pingcap/errors"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/stringutil"
	"go.uber.org/zap"
)

// writeArtifact creates the artifact only when it is absent, created is false when the
// file is already there and its content is left untouched
func writeArtifact(execPath, file string, data []byte, perm os.FileMode) (bool, error) {
	if err := stringutil.CreateDir(execPath, constant.DataxExecDirPerm); err != nil {
		return false, errors.Annotatef(err, "create execute path [%s]", execPath)
	}
	created, err := stringutil.WriteFileExclusive(file, data, perm)
	if err != nil {
		return false, err
	}
	if created {
		logger.Info("datax artifact written", zap.String("file", file), zap.Int("size", len(data)))
	} else {
		logger.Info("datax artifact already exists, reused", zap.String("file", file))
	}
	return created, nil
}
