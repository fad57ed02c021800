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
	"fmt"
	"regexp"
	"unicode"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/resolver"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/text"
)

/*
	PatternExtractor finds entities without a model. Labels with an explicit regex are
	scanned over the whole text; when the regex has a capture group, the entity is the
	span of the first group. Labels with token patterns are matched against the tokens
	of the text. Every match scores 1.0 and the matches are resolved against each other.
*/
type PatternExtractor struct {
	global []globalMatcher
	token  []tokenMatcher
}

type globalMatcher struct {
	label Label
	re    *regexp.Regexp
}

type tokenMatcher struct {
	label     Label
	sequences [][]compiledTokenPattern
}

type compiledTokenPattern struct {
	TokenPattern
	re *regexp.Regexp
}

func NewPatternExtractor(labels Labels) (*PatternExtractor, error) {
	if err := labels.Validate(); err != nil {
		return nil, err
	}

	p := &PatternExtractor{}
	for _, l := range labels {
		if l.Regex != "" {
			re, err := regexp.Compile(l.Regex)
			if err != nil {
				return nil, fmt.Errorf("label %q: %w", l.Label, err)
			}
			p.global = append(p.global, globalMatcher{label: l, re: re})
		}
		if len(l.Pattern) == 0 {
			continue
		}
		matcher := tokenMatcher{label: l}
		for _, sequence := range l.Pattern {
			if len(sequence) == 0 {
				continue
			}
			compiled := make([]compiledTokenPattern, len(sequence))
			for i, tp := range sequence {
				compiled[i] = compiledTokenPattern{TokenPattern: tp}
				if tp.Regex != "" {
					re, err := regexp.Compile(`^(?:` + tp.Regex + `)$`)
					if err != nil {
						return nil, fmt.Errorf("label %q token pattern: %w", l.Label, err)
					}
					compiled[i].re = re
				}
			}
			matcher.sequences = append(matcher.sequences, compiled)
		}
		p.token = append(p.token, matcher)
	}
	return p, nil
}

func (p *PatternExtractor) Extract(_ context.Context, source string) ([]entity.Entity, error) {
	var entities []entity.Entity

	if len(p.token) > 0 {
		tokens, err := text.Tokens(source, false)
		if err != nil {
			return nil, err
		}
		for _, matcher := range p.token {
			found, err := matcher.match(source, tokens)
			if err != nil {
				return nil, err
			}
			entities = append(entities, found...)
		}
	}

	if len(p.global) > 0 {
		offsets := text.RuneOffsets(source)
		for _, matcher := range p.global {
			found, err := matcher.match(source, offsets)
			if err != nil {
				return nil, err
			}
			entities = append(entities, found...)
		}
	}

	return resolver.Resolve(entities), nil
}

func (m globalMatcher) match(source string, offsets []int) ([]entity.Entity, error) {
	var entities []entity.Entity
	group := 0
	if m.re.NumSubexp() > 0 {
		group = 1
	}
	for _, loc := range m.re.FindAllStringSubmatchIndex(source, -1) {
		from, to := loc[2*group], loc[2*group+1]
		// the group did not take part in the match, or matched nothing
		if from < 0 || from == to {
			continue
		}
		e, err := m.label.Entity(source[from:to], offsets[from], offsets[to], 1.0)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (m tokenMatcher) match(source string, tokens []text.Token) ([]entity.Entity, error) {
	var entities []entity.Entity
	for start := range tokens {
		for _, sequence := range m.sequences {
			end := start + len(sequence)
			if end > len(tokens) || !matchSequence(sequence, tokens[start:end]) {
				continue
			}
			from, to := tokens[start].Start, tokens[end-1].End
			e, err := m.label.Entity(text.Slice(source, from, to), from, to, 1.0)
			if err != nil {
				return nil, err
			}
			entities = append(entities, e)
		}
	}
	return entities, nil
}

func matchSequence(sequence []compiledTokenPattern, tokens []text.Token) bool {
	for i, tp := range sequence {
		if !tp.matches(tokens[i].Text) {
			return false
		}
	}
	return true
}

func (tp compiledTokenPattern) matches(token string) bool {
	if tp.Text != "" && tp.Text != token {
		return false
	}
	if tp.Lower != "" && text.NormalizeString(tp.Lower) != text.NormalizeString(token) {
		return false
	}
	if tp.re != nil && !tp.re.MatchString(token) {
		return false
	}
	if tp.IsAlpha && !allRunes(token, unicode.IsLetter) {
		return false
	}
	if tp.IsDigit && !allRunes(token, unicode.IsDigit) {
		return false
	}
	if tp.IsPunct && !allRunes(token, unicode.IsPunct) {
		return false
	}
	if tp.LikeNum && !likeNumber.MatchString(token) {
		return false
	}
	return true
}

var likeNumber = regexp.MustCompile(`^[+-]?\d+(?:[.,]\d+)*$`)

func allRunes(s string, is func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !is(r) {
			return false
		}
	}
	return true
}
