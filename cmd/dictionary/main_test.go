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

package main

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/dictionary"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/grpcbackend"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache/local"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
)

// Imports terms into a local cache, serves them over grpc and reads them back
// through a grpc backend.
func Test_Dictionary_Server(t *testing.T) {
	client := local.New()
	_, err := dictionary.Import(context.Background(), client, dictionary.Entries{
		"name":     {"John Doe"},
		"location": {"Ljubljana"},
	}, 10)
	require.NoError(t, err)

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := newServer(client, dictionary.DefaultConfig)
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	defer grpcServer.Stop()

	backend, conn, err := grpcbackend.Dial(grpcbackend.Config{Host: "bufnet"},
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}))
	require.NoError(t, err)
	defer conn.Close()

	spans, err := backend.Predict(context.Background(), extractor.Request{
		Text:   "John Doe moved to Ljubljana.",
		Labels: []string{"name"},
	})
	require.NoError(t, err)
	assert.Equal(t, []extractor.Span{
		{Text: "John Doe", Label: "name", Start: 0, End: 8, Score: 1},
	}, spans)
}
