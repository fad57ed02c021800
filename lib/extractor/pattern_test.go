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

package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

func patternLabels() Labels {
	return Labels{
		{
			Label: "symptoms",
			Regex: `\((.*)\)`,
		},
		{
			Label:   "medicine",
			Pattern: [][]TokenPattern{{{IsAlpha: true}, {LikeNum: true}, {Lower: "mg"}}},
		},
		{
			Label: "date",
			Pattern: [][]TokenPattern{{
				{Regex: `\d\d`},
				{Text: "-"},
				{Regex: `\d\d`},
				{Text: "-"},
				{Regex: `\d{4}`},
			}},
		},
	}
}

func TestPatternExtractor_Extract(t *testing.T) {
	extractor, err := NewPatternExtractor(patternLabels())
	require.NoError(t, err)

	entities, err := extractor.Extract(context.Background(), medicalRecord)
	require.NoError(t, err)

	expected := []struct {
		text  string
		label string
		start int
		end   int
		regex string
	}{
		{"15-01-1985", "date", 54, 64, ".*"},
		{"20-05-2024", "date", 86, 96, ".*"},
		{"blood pressure, heart rate, temperature", "symptoms", 254, 293, `\((.*)\)`},
		{"Ibuprofen 200 mg", "medicine", 533, 549, ".*"},
		{"Lisinopril 10 mg", "medicine", 623, 639, ".*"},
		{"15-11-2024", "date", 717, 727, ".*"},
	}
	require.Len(t, entities, len(expected))
	for i, want := range expected {
		assert.Equal(t, want.text, entities[i].Text)
		assert.Equal(t, want.label, entities[i].Label)
		assert.Equal(t, want.start, entities[i].StartIndex)
		assert.Equal(t, want.end, entities[i].EndIndex)
		assert.Equal(t, want.regex, entities[i].Regex)
		assert.Equal(t, 1.0, entities[i].Score)
	}
}

func TestPatternExtractor_WholeMatchWithoutGroup(t *testing.T) {
	extractor, err := NewPatternExtractor(Labels{
		{Label: "social security number", Type: entity.TypeCustom, Regex: `[0-9]{3}-[0-9]{2}-[0-9]{4}`},
	})
	require.NoError(t, err)

	entities, err := extractor.Extract(context.Background(), medicalRecord)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "123-45-6789", entities[0].Text)
	assert.Equal(t, 121, entities[0].StartIndex)
	assert.Equal(t, entity.TypeCustom, entities[0].Type)
}

func TestPatternExtractor_ResolvesOverlaps(t *testing.T) {
	extractor, err := NewPatternExtractor(Labels{
		{Label: "surname", Regex: `Doe`},
		{Label: "name", Regex: `John Doe`},
	})
	require.NoError(t, err)

	entities, err := extractor.Extract(context.Background(), "Dr. John Doe")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "name", entities[0].Label)
	assert.Equal(t, 4, entities[0].StartIndex)
}

func TestPatternExtractor_CharacterOffsets(t *testing.T) {
	extractor, err := NewPatternExtractor(Labels{
		{Label: "name", Regex: `(Žiga \p{Lu}\p{Ll}+)`},
	})
	require.NoError(t, err)

	entities, err := extractor.Extract(context.Background(), "Pacient Žiga Šimić je prišel.")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "Žiga Šimić", entities[0].Text)
	assert.Equal(t, 8, entities[0].StartIndex)
	assert.Equal(t, 18, entities[0].EndIndex)
}

func TestPatternExtractor_InvalidRegex(t *testing.T) {
	_, err := NewPatternExtractor(Labels{{Label: "broken", Regex: `(`}})
	assert.Error(t, err)
}
