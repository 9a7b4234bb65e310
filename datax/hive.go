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
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/wentaojin/dataxtask/database"
	"github.com/wentaojin/dataxtask/logger"
	"github.com/wentaojin/dataxtask/model/datasource"
	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/errutil"
	"go.uber.org/zap"
)

var (
	hiveFieldDelimiterRegexp = regexp.MustCompile(`'field\.delim'\s*=\s*'(.*?)'`)
	hiveInputFormatRegexp    = regexp.MustCompile(`INPUTFORMAT\s*'(.*?)'`)
	hiveLocationRegexp       = regexp.MustCompile(`LOCATION\s*'(.*?)'`)
	hiveStoredAsRegexp       = regexp.MustCompile(`(?i)STORED\s+AS\s+(\w+)`)
)

// HiveMetadata is the storage layout of a hive table
type HiveMetadata struct {
	FileType       string
	FieldDelimiter string
	Location       string
	DefaultFS      string
	Path           string
}

func (h *HiveMetadata) String() string {
	return fmt.Sprintf("file-type: [%s], field-delimiter: [%q], location: [%s]", h.FileType, h.FieldDelimiter, h.Location)
}

// ParseHiveMetadata extracts the storage layout from a SHOW CREATE TABLE output
func ParseHiveMetadata(ddl string) (*HiveMetadata, error) {
	meta := &HiveMetadata{}

	if m := hiveInputFormatRegexp.FindStringSubmatch(ddl); m != nil {
		switch {
		case strings.Contains(m[1], "TextInputFormat"):
			meta.FileType = constant.DataxHiveFileTypeText
		case strings.Contains(m[1], "OrcInputFormat"):
			meta.FileType = constant.DataxHiveFileTypeOrc
		default:
			return nil, errutil.MetadataParseError.New("parse hive metadata failed, input format [%s]: only support orcfile and textfile", m[1])
		}
	} else if m = hiveStoredAsRegexp.FindStringSubmatch(ddl); m != nil {
		switch strings.ToUpper(m[1]) {
		case "TEXTFILE":
			meta.FileType = constant.DataxHiveFileTypeText
		case "ORC":
			meta.FileType = constant.DataxHiveFileTypeOrc
		default:
			return nil, errutil.MetadataParseError.New("parse hive metadata failed, stored as [%s]: only support orcfile and textfile", m[1])
		}
	} else {
		return nil, errutil.MetadataParseError.New("parse hive metadata failed: cannot find the table storage format")
	}

	if m := hiveFieldDelimiterRegexp.FindStringSubmatch(ddl); m != nil {
		meta.FieldDelimiter = unescapeDelimiter(m[1])
	} else if meta.FileType == constant.DataxHiveFileTypeOrc {
		logger.Warn("datax hive table is orcfile, set fieldDelimiter default '\\t'")
		meta.FieldDelimiter = constant.DataxHiveDefaultDelimiter
	} else {
		return nil, errutil.MetadataParseError.New("parse hive metadata failed: cannot find fieldDelimiter")
	}

	if m := hiveLocationRegexp.FindStringSubmatch(ddl); m != nil {
		meta.Location = m[1]
	}
	if meta.Location == "" || meta.FieldDelimiter == "" {
		return nil, errutil.MetadataParseError.New("parse hive metadata from ddl failed, %s", meta.String())
	}

	u, err := url.Parse(meta.Location)
	if err != nil {
		return nil, errutil.MetadataParseError.Wrap(err, "parse hive metadata location [%s] failed", meta.Location)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errutil.MetadataParseError.New("parse hive metadata location [%s] failed: missing the filesystem scheme or authority", meta.Location)
	}
	meta.DefaultFS = fmt.Sprintf("%s://%s", u.Scheme, u.Host)
	meta.Path = strings.TrimSuffix(u.Path, "/")
	return meta, nil
}

// unescapeDelimiter turns the escaped delimiter hive prints, such as \t or \u0001, into the character
func unescapeDelimiter(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	rest := s
	for len(rest) > 0 {
		r, _, tail, err := strconv.UnquoteChar(rest, '\'')
		if err != nil {
			return strings.ReplaceAll(s, `\t`, "\t")
		}
		sb.WriteRune(r)
		rest = tail
	}
	return sb.String()
}

// HiveMetadataProber reads the table ddl through the hive connection
type HiveMetadataProber struct {
	provider database.Provider
}

func NewHiveMetadataProber(provider database.Provider) *HiveMetadataProber {
	if provider == nil {
		provider = database.DefaultProvider
	}
	return &HiveMetadataProber{provider: provider}
}

func (p *HiveMetadataProber) Probe(ctx context.Context, conn *datasource.ConnectionParams, table string) (*HiveMetadata, error) {
	db, err := p.provider.Open(ctx, conn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	columns, rows, err := db.GeneralQuery(ctx, fmt.Sprintf(constant.DataxHiveShowCreateTableSQL, table))
	if err != nil {
		return nil, errutil.MetadataParseError.Wrap(err, "get hive table [%s] ddl failed", table)
	}
	if len(columns) == 0 {
		return nil, errutil.MetadataParseError.New("get hive table [%s] ddl failed: empty result", table)
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(row[columns[0]])
		sb.WriteString(constant.StringSeparatorNewline)
	}

	meta, err := ParseHiveMetadata(sb.String())
	if err != nil {
		return nil, err
	}
	logger.Info("datax hive table metadata probed",
		zap.String("table", table),
		zap.String("file_type", meta.FileType),
		zap.String("default_fs", meta.DefaultFS),
		zap.String("path", meta.Path))
	return meta, nil
}
