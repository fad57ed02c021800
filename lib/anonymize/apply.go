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

package anonymize

import (
	"errors"
	"fmt"
	"sort"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

var (
	ErrOverlappingReplacements = errors.New("replacements overlap")
	ErrReplacementOutOfRange   = errors.New("replacement out of range")
)

/*
	Apply substitutes every replacement into text and returns the new text together
	with the replacements sorted ascending by start index. The replacements slice
	passed in is left untouched.

	Replacements are spliced from the rightmost to the leftmost so that the offsets of
	the ones still to be applied stay valid. Overlapping replacements and replacements
	outside of text are rejected.
*/
func Apply(text string, replacements []entity.Replacement) (string, []entity.Replacement, error) {
	sorted := make([]entity.Replacement, len(replacements))
	copy(sorted, replacements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartIndex < sorted[j].StartIndex
	})

	runes := []rune(text)
	for i, r := range sorted {
		if r.StartIndex < 0 || r.EndIndex > len(runes) || r.StartIndex >= r.EndIndex {
			return "", nil, fmt.Errorf("%w: [%d, %d) in text of length %d", ErrReplacementOutOfRange, r.StartIndex, r.EndIndex, len(runes))
		}
		if i > 0 && sorted[i-1].EndIndex > r.StartIndex {
			prev := sorted[i-1]
			return "", nil, fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrOverlappingReplacements, prev.StartIndex, prev.EndIndex, r.StartIndex, r.EndIndex)
		}
	}

	for i := len(sorted) - 1; i >= 0; i-- {
		r := sorted[i]
		spliced := make([]rune, 0, len(runes)-(r.EndIndex-r.StartIndex)+len(r.AnonymizedText))
		spliced = append(spliced, runes[:r.StartIndex]...)
		spliced = append(spliced, []rune(r.AnonymizedText)...)
		spliced = append(spliced, runes[r.EndIndex:]...)
		runes = spliced
	}

	return string(runes), sorted, nil
}
