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
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/grpcbackend"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
)

// config structure
type regexerConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Server         struct {
		GrpcPort int `mapstructure:"grpc_port"`
	}
	LabelsFile string `mapstructure:"labels_file"`
}

var config regexerConfig

func initConfig() {
	err := lib.InitializeConfig("./config/regexer.yml", map[string]interface{}{
		"server.grpc_port": 50053,
		"labels_file":      "config/labels.yml",
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

// recogniser serves the matches of the label patterns as model predictions.
type recogniser struct {
	patterns *extractor.PatternExtractor
}

func (r recogniser) Predict(ctx context.Context, req extractor.Request) ([]extractor.Span, error) {
	entities, err := r.patterns.Extract(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(req.Labels))
	for _, l := range req.Labels {
		wanted[l] = struct{}{}
	}
	spans := make([]extractor.Span, 0, len(entities))
	for _, e := range entities {
		if _, ok := wanted[e.Label]; len(wanted) > 0 && !ok {
			continue
		}
		spans = append(spans, extractor.Span{
			Text:  e.Text,
			Label: e.Label,
			Start: e.StartIndex,
			End:   e.EndIndex,
			Score: e.Score,
		})
	}
	return spans, nil
}

func main() {
	initConfig()

	labels, err := extractor.LoadLabels(config.LabelsFile)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	patterns, err := extractor.NewPatternExtractor(labels)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	ctx, stop := lib.InterruptContext(context.Background())
	defer stop()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", config.Server.GrpcPort))
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	grpcServer := grpc.NewServer()
	grpcbackend.Register(grpcServer, recogniser{patterns: patterns})
	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	log.Info().Int("port", config.Server.GrpcPort).Strs("labels", labels.Names()).Msg("serving")
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatal().Err(err).Send()
	}
}
