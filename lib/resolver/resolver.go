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
	"sort"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

/*
	Resolve reduces a set of possibly overlapping entities to a pairwise disjoint set.

	Longer entities win over shorter ones they overlap with. Among entities of equal
	length the one starting first wins. Exact duplicates of the same span keep the
	highest score, then the lowest label. The result is ascending by start index and
	does not depend on the order of the input.
*/
func Resolve(entities []entity.Entity) []entity.Entity {
	if len(entities) == 0 {
		return []entity.Entity{}
	}

	candidates := make([]entity.Entity, len(entities))
	copy(candidates, entities)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		if a.StartIndex != b.StartIndex {
			return a.StartIndex < b.StartIndex
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Label < b.Label
	})

	claimed := make(map[int]struct{})
	accepted := make([]entity.Entity, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := claimed[candidate.StartIndex]; ok {
			continue
		}
		if _, ok := claimed[candidate.EndIndex-1]; ok {
			continue
		}
		for i := candidate.StartIndex; i < candidate.EndIndex; i++ {
			claimed[i] = struct{}{}
		}
		accepted = append(accepted, candidate)
	}

	sortByStart(accepted)
	return accepted
}

func sortByStart(entities []entity.Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].StartIndex < entities[j].StartIndex
	})
}
