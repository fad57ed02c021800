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
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RuneOffsets(t *testing.T) {
	input := "Zoë Ž. Doe"
	offsets := RuneOffsets(input)
	assert.Len(t, offsets, len(input)+1)

	loc := regexp.MustCompile(`Doe`).FindStringIndex(input)
	start, end := offsets[loc[0]], offsets[loc[1]]
	assert.Equal(t, 7, start)
	assert.Equal(t, 10, end)
	assert.Equal(t, "Doe", Slice(input, start, end))
	assert.Equal(t, Len(input), offsets[len(input)])
}
