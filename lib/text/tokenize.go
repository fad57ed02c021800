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
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
)

// Token is a word segment of a text. Start and End are character offsets
// into the tokenized text, End exclusive.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

/*
	Tokenize splits text into word segments and calls onToken for each token found,
	in order of appearance. Whitespace never forms part of a token.

	exactMatch controls whether the tokens are split only on whitespace or not.
	E.g. with exactMatch, "some-text" is a single token. Without exact match, it is
	three tokens: "some", "-", "text".
*/
func Tokenize(text string, onToken func(Token) error, exactMatch bool) error {
	segmenter := segment.NewWordSegmenterDirect([]byte(text))
	buffer := bytes.NewBuffer(nil)

	position := 0
	tokenStart := 0

	flush := func() error {
		if buffer.Len() == 0 {
			return nil
		}
		token := Token{
			Text:  buffer.String(),
			Start: tokenStart,
			End:   position,
		}
		buffer.Reset()
		return onToken(token)
	}

	for segmenter.Segment() {
		segmentBytes := segmenter.Bytes()

		if segmenter.Type() == segment.None && isWhitespace(segmentBytes) {
			if err := flush(); err != nil {
				return err
			}
			position += utf8.RuneCount(segmentBytes)
			continue
		}

		if !exactMatch {
			if err := flush(); err != nil {
				return err
			}
		}
		if buffer.Len() == 0 {
			tokenStart = position
		}
		buffer.Write(segmentBytes)
		position += utf8.RuneCount(segmentBytes)
	}
	if err := segmenter.Err(); err != nil {
		return err
	}

	// whatever is left in the buffer once the segmenter has finished is the last token
	return flush()
}

// Tokens collects the tokens of text into a slice.
func Tokens(text string, exactMatch bool) ([]Token, error) {
	var tokens []Token
	err := Tokenize(text, func(token Token) error {
		tokens = append(tokens, token)
		return nil
	}, exactMatch)
	return tokens, err
}

func isWhitespace(b []byte) bool {
	for _, r := range string(b) {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
