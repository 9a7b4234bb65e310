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
	"sort"
	"strings"
	"unsafe"

	"github.com/thinkeridea/go-extend/exstrings"
)

// StringBuilder used for string builder, and returns string
func StringBuilder(str ...string) string {
	var b strings.Builder
	for _, p := range str {
		b.WriteString(p)
	}
	return b.String() // no copying
}

// StringJoin used for string join, and returns array string
func StringJoin(strs []string, sep string) string {
	return exstrings.Join(strs, sep)
}

// IsContainedStringIgnoreCase used for judge the item contains any of the keywords, ignore case
func IsContainedStringIgnoreCase(item string, keywords []string) bool {
	lower := strings.ToLower(item)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// ExchangeStringDict used for exchange string dict, the high priority key overwrite the low priority key
func ExchangeStringDict(highPriority, lowPriority map[string]string) map[string]string {
	result := make(map[string]string, len(highPriority)+len(lowPriority))

	for k, v := range lowPriority {
		result[k] = v
	}

	for k, v := range highPriority {
		result[k] = v
	}

	return result
}

// SortedKeys returns the map keys in alphabetical order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BytesToString used for bytes to string, reduce memory
// https://segmentfault.com/a/1190000037679588
func BytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}
