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

package lib

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLogFormatter(t *testing.T) {
	line := JsonLogFormatter(gin.LogFormatterParams{
		Request:      &http.Request{},
		TimeStamp:    time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC),
		StatusCode:   http.StatusBadRequest,
		Latency:      2 * time.Millisecond,
		ClientIP:     "10.0.0.1",
		Method:       http.MethodPost,
		Path:         "/anonymize",
		ErrorMessage: errors.New("bad policy").Error(),
		Keys:         map[string]interface{}{RequestIDKey: "abc"},
	})

	var logline map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &logline))
	assert.Equal(t, "2024-05-20T12:00:00", logline["time"])
	assert.Equal(t, float64(400), logline["status"])
	assert.Equal(t, "/anonymize", logline["path"])
	assert.Equal(t, "bad policy", logline["error"])
	assert.Equal(t, "abc", logline[RequestIDKey])
	assert.Equal(t, byte('\n'), line[len(line)-1])
}
