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
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/anonymizer"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/dictionary"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/grpcbackend"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
)

// config structure
type dictionaryServerConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Server         struct {
		GrpcPort int `mapstructure:"grpc_port"`
	}
	anonymizer.DictionaryConfig `mapstructure:",squash"`
}

var config dictionaryServerConfig

func initConfig() {
	err := lib.InitializeConfig("./config/dictionary.yml", map[string]interface{}{
		"cache":                 cache.Redis,
		"pipeline_size":         dictionary.DefaultConfig.PipelineSize,
		"compound_token_length": dictionary.DefaultConfig.CompoundTokenLength,
		"server.grpc_port":      50051,
		"redis.host":            "localhost",
		"redis.port":            6379,
		"elasticsearch.host":    "localhost",
		"elasticsearch.port":    9200,
		"elasticsearch.index":   "dictionary",
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func newServer(client cache.Client, conf dictionary.Config) *grpc.Server {
	grpcServer := grpc.NewServer()
	grpcbackend.Register(grpcServer, dictionary.New(client, conf))
	return grpcServer
}

func main() {
	initConfig()

	ctx, stop := lib.InterruptContext(context.Background())
	defer stop()

	client, err := anonymizer.DictionaryCache(ctx, config.DictionaryConfig)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	if !client.Ready() {
		log.Warn().Str("cache", string(config.Cache)).Msg("dictionary cache is not ready")
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", config.Server.GrpcPort))
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	grpcServer := newServer(client, config.DictionaryConfig.Config)
	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	log.Info().Int("port", config.Server.GrpcPort).Msg("ready to accept requests")
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatal().Err(err).Send()
	}
}
