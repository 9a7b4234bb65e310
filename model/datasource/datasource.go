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
package datasource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wentaojin/dataxtask/utils/constant"
	"github.com/wentaojin/dataxtask/utils/stringutil"
)

// Datasource is the store descriptor as registered by the operator, the password is encoded
type Datasource struct {
	Type     StoreType `toml:"type" json:"type"`
	Host     string    `toml:"host" json:"host"`
	Port     Port      `toml:"port" json:"port"`
	Database string    `toml:"database" json:"database"`
	Username string    `toml:"username" json:"username"`
	Password string    `toml:"password" json:"-"`
	Other    Other     `toml:"other" json:"other,omitempty"`
	// Scheme only used by elasticsearch, default http
	Scheme string `toml:"scheme" json:"scheme,omitempty"`
}

func (d *Datasource) String() string {
	return fmt.Sprintf("type: [%s], host: [%s], port: [%s], database: [%s], username: [%s], other: [%s]",
		d.Type, d.Host, d.Port, d.Database, d.Username, d.Other)
}

// Port accepts both the toml integer and string form
type Port string

func (p *Port) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case int64:
		*p = Port(strconv.FormatInt(v, 10))
	case string:
		*p = Port(strings.TrimSpace(v))
	default:
		return fmt.Errorf("the datasource port [%v] type [%T] is not supported", data, data)
	}
	return nil
}

// Int returns the numeric port, ok is false when it is empty or not a valid port number
func (p Port) Int() (int, bool) {
	n, err := strconv.Atoi(string(p))
	if err != nil || n <= 0 || n > 65535 {
		return 0, false
	}
	return n, true
}

// Param is a single extra connection parameter
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Other is the ordered list of extra connection parameters, a "k=v&k2=v2" string keeps its
// order and a toml table is sorted by key
type Other []Param

func (o *Other) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		*o = ParseOther(v)
	case map[string]any:
		m := make(map[string]string, len(v))
		for k, val := range v {
			m[k] = fmt.Sprintf("%v", val)
		}
		*o = OtherFromMap(m)
	default:
		return fmt.Errorf("the datasource other [%v] type [%T] is not supported", data, data)
	}
	return nil
}

// ParseOther parses a "k=v&k2=v2" string in order, segments without a key are skipped
func ParseOther(s string) Other {
	var params Other
	for _, seg := range strings.Split(s, constant.StringSeparatorAmpersand) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		k, v, _ := strings.Cut(seg, constant.StringSeparatorEqual)
		if strings.TrimSpace(k) == "" {
			continue
		}
		params = append(params, Param{Key: strings.TrimSpace(k), Value: v})
	}
	return params
}

// OtherFromMap builds the parameters sorted by key
func OtherFromMap(m map[string]string) Other {
	params := make(Other, 0, len(m))
	for _, k := range stringutil.SortedKeys(m) {
		params = append(params, Param{Key: k, Value: m[k]})
	}
	return params
}

// Join renders the parameters with the given pair separator
func (o Other) Join(sep string) string {
	pairs := make([]string, 0, len(o))
	for _, p := range o {
		pairs = append(pairs, stringutil.StringBuilder(p.Key, constant.StringSeparatorEqual, p.Value))
	}
	return stringutil.StringJoin(pairs, sep)
}

func (o Other) String() string {
	return o.Join(constant.StringSeparatorAmpersand)
}
