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

package generator

import (
	"strings"
	"unicode"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

// Letters replaces every letter of the entity with a random ascii letter of
// the same case and keeps everything else.
type Letters struct {
	src source
}

func NewLetters() *Letters {
	return &Letters{src: defaultSource()}
}

func NewLettersWithSeed(seed int64) *Letters {
	return &Letters{src: newSource(seed)}
}

func (l *Letters) Generate(e entity.Entity) (string, error) {
	if err := checkType("letters", e, entity.TypeNone, entity.TypeString); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, r := range e.Text {
		switch {
		case unicode.IsUpper(r):
			b.WriteByte(byte('A' + l.src.Intn(26)))
		case unicode.IsLetter(r):
			b.WriteByte(byte('a' + l.src.Intn(26)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
