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
	"regexp"
)

var placeholderRegexp = regexp.MustCompile(`\$\{([^{}]+)\}`)

// ConvertParameterPlaceholders replaces every ${name} with params[name],
// names missing from params are left untouched
func ConvertParameterPlaceholders(content string, params map[string]string) string {
	if len(params) == 0 || content == "" {
		return content
	}
	return placeholderRegexp.ReplaceAllStringFunc(content, func(m string) string {
		name := placeholderRegexp.FindStringSubmatch(m)[1]
		if v, ok := params[name]; ok {
			return v
		}
		return m
	})
}
