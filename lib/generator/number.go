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

// Number replaces every digit of the entity with a random digit and keeps
// everything else, so separators and length survive.
type Number struct {
	src source
}

func NewNumber() *Number {
	return &Number{src: defaultSource()}
}

func NewNumberWithSeed(seed int64) *Number {
	return &Number{src: newSource(seed)}
}

func (n *Number) Generate(e entity.Entity) (string, error) {
	if err := checkType("number", e, entity.TypeInteger, entity.TypeFloat, entity.TypePhoneNumber); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, r := range e.Text {
		if unicode.IsDigit(r) {
			b.WriteByte(byte('0' + n.src.Intn(10)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
