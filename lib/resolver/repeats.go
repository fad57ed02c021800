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

package resolver

import (
	"regexp"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/text"
)

// DetectRepeats adds an entity for every other verbatim, case-sensitive occurrence
// of an entity's text in text. Clones keep the label, type, regex and score of the
// entity they were found from. The union is resolved again, so a repeat never
// overlaps an entity found independently.
func DetectRepeats(source string, entities []entity.Entity) []entity.Entity {
	if len(entities) == 0 {
		return []entity.Entity{}
	}

	offsets := text.RuneOffsets(source)
	expanded := make([]entity.Entity, 0, len(entities))
	expanded = append(expanded, entities...)

	searched := make(map[string][][]int)
	for _, e := range entities {
		if e.Text == "" {
			continue
		}
		locations, ok := searched[e.Text]
		if !ok {
			locations = regexp.MustCompile(regexp.QuoteMeta(e.Text)).FindAllStringIndex(source, -1)
			searched[e.Text] = locations
		}
		for _, loc := range locations {
			start, end := offsets[loc[0]], offsets[loc[1]]
			if start == e.StartIndex && end == e.EndIndex {
				continue
			}
			expanded = append(expanded, e.WithOffsets(start, end))
		}
	}

	return Resolve(expanded)
}
