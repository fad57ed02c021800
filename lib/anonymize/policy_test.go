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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

const sample = "Test this string, and this test too!"

func sampleEntities() []entity.Entity {
	return []entity.Entity{
		{Text: "Test", Label: "test", StartIndex: 0, EndIndex: 4, Score: 1, Regex: entity.DefaultRegex},
		{Text: "string", Label: "type", StartIndex: 10, EndIndex: 16, Score: 1, Regex: entity.DefaultRegex},
		{Text: "test", Label: "test", StartIndex: 27, EndIndex: 31, Score: 1, Regex: entity.DefaultRegex},
	}
}

func TestMasking(t *testing.T) {
	text, replacements, err := NewMasking("*").Anonymize(sample, sampleEntities())
	require.NoError(t, err)
	assert.Equal(t, "**** this ******, and this **** too!", text)
	assert.Len(t, replacements, 3)
	assert.Equal(t, "******", replacements[1].AnonymizedText)
	assert.Equal(t, "string", replacements[1].OriginalText)
}

func TestMasking_MultipleTokens(t *testing.T) {
	m := NewMasking("")
	assert.Equal(t, "**** ***", m.mask("John Doe"))
	assert.Equal(t, "**** ***", m.mask("John \t  Doe"))
	assert.Equal(t, "*** **", m.mask("Žan Ko"))
}

func TestRedaction(t *testing.T) {
	text, replacements, err := NewRedaction("[REDACTED]").Anonymize(sample, sampleEntities())
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED] this [REDACTED], and this [REDACTED] too!", text)
	for _, r := range replacements {
		assert.Equal(t, DefaultPlaceholder, r.AnonymizedText)
	}
}

func TestRedaction_RoundTrip(t *testing.T) {
	entities := sampleEntities()
	text, _, err := NewRedaction("").Anonymize(sample, entities)
	require.NoError(t, err)

	runes := []rune(text)
	for _, e := range entities {
		if e.EndIndex <= len(runes) {
			assert.NotEqual(t, e.Text, string(runes[e.StartIndex:e.EndIndex]))
		}
	}
	assert.NotContains(t, text, "string")
}

func TestPseudonymization(t *testing.T) {
	mapping := LabelMapping(map[string]string{"test": "[TEST]", "type": "[TYPE]"}, "[REDACTED]")

	text, replacements, err := NewPseudonymization(mapping).Anonymize(sample, sampleEntities())
	require.NoError(t, err)
	assert.Equal(t, "[TEST] this [TYPE], and this [TEST] too!", text)
	assert.Equal(t, []int{0, 10, 27}, []int{replacements[0].StartIndex, replacements[1].StartIndex, replacements[2].StartIndex})
}

func TestPseudonymization_Consistent(t *testing.T) {
	source := "Ana called Ana."
	entities := []entity.Entity{
		{Text: "Ana", Label: "name", StartIndex: 0, EndIndex: 3},
		{Text: "Ana", Label: "organisation", StartIndex: 11, EndIndex: 14},
	}
	calls := 0
	mapping := func(text string, e entity.Entity) (string, error) {
		calls++
		assert.Equal(t, source, text)
		return "Pseudo" + strings.Repeat("!", calls), nil
	}

	text, replacements, err := NewPseudonymization(mapping).Anonymize(source, entities)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Pseudo! called Pseudo!.", text)
	assert.Equal(t, replacements[0].AnonymizedText, replacements[1].AnonymizedText)

	// the memo does not outlive a call
	_, replacements, err = NewPseudonymization(mapping).Anonymize(source, entities)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Pseudo!!", replacements[0].AnonymizedText)
}

func TestPseudonymization_MappingError(t *testing.T) {
	failure := errors.New("generator unavailable")
	mapping := func(string, entity.Entity) (string, error) { return "", failure }

	_, _, err := NewPseudonymization(mapping).Anonymize(sample, sampleEntities())
	assert.ErrorIs(t, err, failure)
}

func TestPseudonymization_NoMapping(t *testing.T) {
	_, _, err := Pseudonymization{}.Anonymize(sample, sampleEntities())
	assert.Error(t, err)
}

func TestPolicies_NoEntities(t *testing.T) {
	for _, policy := range []Policy{NewRedaction(""), NewMasking(""), NewPseudonymization(LabelMapping(nil, "x"))} {
		text, replacements, err := policy.Anonymize(sample, nil)
		require.NoError(t, err)
		assert.Equal(t, sample, text)
		assert.Empty(t, replacements)
	}
}
