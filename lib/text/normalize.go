/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var TokenDelimiters = map[string]struct{}{
	"(": {},
	")": {},
	"{": {},
	"}": {},
	"[": {},
	"]": {},
	`"`: {},
	"'": {},
	":": {},
	";": {},
	",": {},
	".": {},
	"?": {},
	"!": {},
}

// IsTokenDelimiter reports whether token is punctuation that separates phrases.
func IsTokenDelimiter(token string) bool {
	_, ok := TokenDelimiters[token]
	return ok
}

// NormalizeString enforces NFKC encoding on the utf8 characters and lower cases them.
func NormalizeString(token string) string {
	return strings.ToLower(norm.NFKC.String(token))
}
