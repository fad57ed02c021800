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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHtmlToText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "paragraphs",
			html: "<html><body><p>Patient Name: John Doe</p><p>Born 15-01-1985</p></body></html>",
			want: "Patient Name: John Doe\nBorn 15-01-1985",
		},
		{
			name: "inline elements",
			html: "<p>Patient <b>John</b> <i>Doe</i></p>",
			want: "Patient John Doe",
		},
		{
			name: "skipped elements",
			html: "<head><title>x</title><style>p {}</style></head><body><script>var a = 1;</script><div>Text</div></body>",
			want: "Text",
		},
		{
			name: "line breaks and entities",
			html: "<div>Smith &amp; Jones<br/>Ljubljana</div>",
			want: "Smith & Jones\nLjubljana",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HtmlToText(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
