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
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/anonymizer"
)

// config structure
type anonymizationAPIConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Server         struct {
		HttpPort       int      `mapstructure:"http_port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	}
	anonymizer.Config `mapstructure:",squash"`
}

var config anonymizationAPIConfig

func initConfig() {
	defaults := map[string]interface{}{
		"server.http_port": 8080,
	}
	for k, v := range anonymizer.DefaultConfig {
		defaults[k] = v
	}
	if err := lib.InitializeConfig("./config/anonymization-api.yml", defaults, &config); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func main() {
	initConfig()

	ctx, stop := lib.InterruptContext(context.Background())
	defer stop()

	a, err := anonymizer.Load(ctx, config.Config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error().Err(err).Send()
		}
	}()

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery(), cors.New(corsConfig()))
	s := server{controller: controller{anonymizer: a}}
	s.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Server.HttpPort),
		Handler: r,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Int("port", config.Server.HttpPort).Strs("extractors", a.ExtractorNames()).Msg("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Send()
	}
}

func corsConfig() cors.Config {
	conf := cors.DefaultConfig()
	if len(config.Server.AllowedOrigins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = config.Server.AllowedOrigins
	}
	conf.AddAllowHeaders(requestIDHeader)
	conf.AddExposeHeaders(requestIDHeader)
	return conf
}
