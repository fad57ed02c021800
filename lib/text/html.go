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
	"io"
	"strings"

	"golang.org/x/net/html"
)

// content of these elements is never text
var skippedElements = map[string]struct{}{
	"area":     {},
	"audio":    {},
	"link":     {},
	"meta":     {},
	"noscript": {},
	"script":   {},
	"source":   {},
	"style":    {},
	"input":    {},
	"textarea": {},
	"video":    {},
	"head":     {},
}

// inline elements do not end a line
var inlineElements = map[string]struct{}{
	"span":   {},
	"sub":    {},
	"sup":    {},
	"b":      {},
	"del":    {},
	"i":      {},
	"ins":    {},
	"mark":   {},
	"q":      {},
	"s":      {},
	"strike": {},
	"strong": {},
	"u":      {},
	"big":    {},
	"small":  {},
	"a":      {},
	"em":     {},
	"code":   {},
	"abbr":   {},
}

// HtmlToText extracts the visible text of an HTML document. Block elements and
// <br> end a line; entities are unescaped.
func HtmlToText(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)
	var sb strings.Builder
	skipDepth := 0

	newline := func() {
		s := sb.String()
		if len(s) > 0 && !strings.HasSuffix(s, "\n") {
			sb.WriteByte('\n')
		}
	}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return "", err
			}
			return strings.TrimRight(sb.String(), "\n"), nil
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if _, ok := skippedElements[tag]; ok {
				skipDepth++
				continue
			}
			if tag == "br" {
				if skipDepth == 0 {
					sb.WriteByte('\n')
				}
				continue
			}
			if _, ok := inlineElements[tag]; !ok && skipDepth == 0 {
				newline()
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if _, ok := skippedElements[tag]; ok {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if _, ok := inlineElements[tag]; !ok && skipDepth == 0 {
				newline()
			}
		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "br" && skipDepth == 0 {
				sb.WriteByte('\n')
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := string(tokenizer.Text())
			if strings.TrimSpace(text) == "" {
				// whitespace only separates inline content
				if sb.Len() == 0 || strings.HasSuffix(sb.String(), "\n") {
					continue
				}
			}
			sb.WriteString(text)
		}
	}
}
