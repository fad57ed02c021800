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

package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache/local"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
)

func TestLoadFileAndImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.yml")
	require.NoError(t, os.WriteFile(path, []byte("name:\n  - John Doe\n  - Ana Novak\nlocation:\n  - Ljubljana\n  - \"  \"\n"), 0o600))

	entries, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"John Doe", "Ana Novak"}, entries["name"])

	client := local.New()
	imported, err := Import(context.Background(), client, entries, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, imported)

	results := map[string]*cache.Lookup{}
	get := client.NewGetPipeline(3)
	get.Get("john doe")
	get.Get("ana novak")
	get.Get("ljubljana")
	require.NoError(t, get.ExecGet(context.Background(), func(key string, lookup *cache.Lookup) error {
		results[key] = lookup
		return nil
	}))
	assert.Equal(t, "name", results["john doe"].Label)
	assert.Equal(t, "name", results["ana novak"].Label)
	assert.Equal(t, "location", results["ljubljana"].Label)

	spans, err := New(client, DefaultConfig).Predict(context.Background(), extractor.Request{Text: "Ana Novak, LJUBLJANA"})
	require.NoError(t, err)
	assert.Equal(t, []extractor.Span{
		{Text: "Ana Novak", Label: "name", Start: 0, End: 9, Score: 1},
		{Text: "LJUBLJANA", Label: "location", Start: 11, End: 20, Score: 1},
	}, spans)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
