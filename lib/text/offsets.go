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

import "unicode/utf8"

// RuneOffsets maps every byte offset of s (including len(s)) to the
// character offset it falls on. Regexp results are byte offsets; entities
// are character offsets.
func RuneOffsets(s string) []int {
	offsets := make([]int, len(s)+1)
	char := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		for j := 0; j < size; j++ {
			offsets[i+j] = char
		}
		i += size
		char++
	}
	offsets[len(s)] = char
	return offsets
}

// Len is the number of characters in s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Slice returns the characters [start, end) of s.
func Slice(s string, start, end int) string {
	return string([]rune(s)[start:end])
}
