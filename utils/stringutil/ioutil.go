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
package stringutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	perrors "github.com/pingcap/errors"
)

// IsPathExist check whether a path is exist
func IsPathExist(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsPathNotExist check whether a path is not exist
func IsPathNotExist(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// CreateDir used to create dir
func CreateDir(path string, perm os.FileMode) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(path, perm)
		}
		return err
	}
	return nil
}

// WriteFileExclusive writes data with perm to a temporary file next to name and links it
// into place, it returns created false without touching name when the path is already present.
// A failed write never leaves a partial file at name
func WriteFileExclusive(name string, data []byte, perm os.FileMode) (bool, error) {
	if IsPathExist(name) {
		return false, nil
	}
	f, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".tmp-*")
	if err != nil {
		return false, perrors.Annotatef(err, "create temporary file of [%s]", name)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err = writeData(f, data); err != nil {
		_ = f.Close()
		return false, perrors.Annotatef(err, "write file [%s]", tmp)
	}
	if err = f.Close(); err != nil {
		return false, perrors.Annotatef(err, "close file [%s]", tmp)
	}
	if err = os.Chmod(tmp, perm); err != nil {
		return false, perrors.Annotatef(err, "chmod file [%s]", tmp)
	}
	if err = os.Link(tmp, name); err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, perrors.Annotatef(err, "link file [%s] to [%s]", tmp, name)
	}
	return true, nil
}

var writeData = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// PrintTable accepts a matrix of strings and print them as ASCII table to terminal
func PrintTable(rows [][]string, header bool) {
	if len(rows) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	if header {
		addRow(t, rows[0], true)
		border := make([]string, len(rows[0]))
		for i := range border {
			border[i] = strings.Repeat("-", len(rows[0][i]))
		}
		addRow(t, border, false)
		rows = rows[1:]
	}
	for _, row := range rows {
		addRow(t, row, false)
	}

	t.SetStyle(table.Style{
		Name: "dataxtask",
		Box: table.BoxStyle{
			Left:             "|",
			LeftSeparator:    "|",
			MiddleHorizontal: "-",
			MiddleSeparator:  "  ",
			MiddleVertical:   "  ",
		},
		Format: table.FormatOptions{
			Header: text.FormatDefault,
		},
		Options: table.Options{
			SeparateColumns: true,
		},
	})
	t.Render()
}

func addRow(t table.Writer, rawLine []string, header bool) {
	row := make(table.Row, len(rawLine))
	for i, v := range rawLine {
		row[i] = v
	}

	if header {
		t.AppendHeader(row)
	} else {
		t.AppendRow(row)
	}
}
