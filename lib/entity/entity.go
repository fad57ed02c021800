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

package entity

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrCustomRegexRequired = errors.New("custom entities require a regex")
	ErrInvalidOffsets      = errors.New("invalid entity offsets")
	ErrInvalidScore        = errors.New("entity score must be within [0, 1]")
)

// Entity is a span of interest found in a source text. Offsets are character
// (rune) offsets into the original text, EndIndex exclusive.
//
// Entities are values. Nothing in this module changes an entity once it has
// been built; derived entities are copies (see WithOffsets).
type Entity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	Score      float64 `json:"score"`
	Type       Type    `json:"type,omitempty"`
	Regex      string  `json:"regex"`
}

type Option func(*Entity)

func WithScore(score float64) Option {
	return func(e *Entity) { e.Score = score }
}

func WithType(t Type) Option {
	return func(e *Entity) { e.Type = t }
}

// WithRegex sets an explicit validation pattern. An empty pattern is ignored
// and the type default applies.
func WithRegex(regex string) Option {
	return func(e *Entity) { e.Regex = regex }
}

// New builds a validated entity. The score defaults to 1.0 and the regex to
// the default pattern of the entity type.
func New(text, label string, start, end int, opts ...Option) (Entity, error) {
	e := Entity{
		Text:       text,
		Label:      label,
		StartIndex: start,
		EndIndex:   end,
		Score:      1.0,
	}
	for _, opt := range opts {
		opt(&e)
	}

	if start < 0 || end <= start {
		return Entity{}, fmt.Errorf("%w: [%d, %d) for %q", ErrInvalidOffsets, start, end, text)
	}
	if e.Score < 0 || e.Score > 1 {
		return Entity{}, fmt.Errorf("%w: got %v", ErrInvalidScore, e.Score)
	}
	if e.Regex == "" {
		if e.Type == TypeCustom {
			return Entity{}, fmt.Errorf("%w: label %q", ErrCustomRegexRequired, label)
		}
		e.Regex = RegexFor(e.Type)
	}
	if _, err := regexp.Compile(e.Regex); err != nil {
		return Entity{}, fmt.Errorf("compiling regex of label %q: %w", label, err)
	}
	return e, nil
}

// Len is the number of characters covered by the entity.
func (e Entity) Len() int {
	return e.EndIndex - e.StartIndex
}

// Overlaps reports whether e and other share at least one character offset.
func (e Entity) Overlaps(other Entity) bool {
	return e.StartIndex < other.EndIndex && other.StartIndex < e.EndIndex
}

// WithOffsets returns a copy of e moved to [start, end).
func (e Entity) WithOffsets(start, end int) Entity {
	e.StartIndex = start
	e.EndIndex = end
	return e
}

// RegexGroup returns the content of the first capture group of the entity
// regex, or the whole regex when it has none.
func (e Entity) RegexGroup() string {
	m := regexGroupPattern.FindStringSubmatch(e.Regex)
	if m == nil {
		return e.Regex
	}
	return m[1]
}

var regexGroupPattern = regexp.MustCompile(`^.*?\((.*)\).*$`)

// Matches reports whether the entity text satisfies its regex. The match is
// anchored at the start of the text but does not need to consume all of it.
func (e Entity) Matches() (bool, error) {
	re, err := CompilePrefix(e.Regex)
	if err != nil {
		return false, err
	}
	return re.MatchString(e.Text), nil
}

// CompilePrefix compiles pattern so that it only matches at the start of the input.
func CompilePrefix(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)`)
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(text=%q, label=%q, start_index=%d, end_index=%d, type=%q)",
		e.Text, e.Label, e.StartIndex, e.EndIndex, e.Type)
}

// Replacement is the outcome of applying an anonymization policy to one entity.
// OriginalText and Label are provenance only.
type Replacement struct {
	OriginalText   string `json:"original_text,omitempty"`
	Label          string `json:"label,omitempty"`
	StartIndex     int    `json:"start_index"`
	EndIndex       int    `json:"end_index"`
	AnonymizedText string `json:"anonymized_text"`
}

// NewReplacement derives a replacement for e carrying its provenance.
func NewReplacement(e Entity, anonymizedText string) Replacement {
	return Replacement{
		OriginalText:   e.Text,
		Label:          e.Label,
		StartIndex:     e.StartIndex,
		EndIndex:       e.EndIndex,
		AnonymizedText: anonymizedText,
	}
}
