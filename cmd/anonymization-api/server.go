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
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/anonymizer"
)

const requestIDHeader = "X-Request-Id"

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func (e HttpError) Unwrap() error {
	return e.error
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.Use(requestID)
	r.GET("/extractors", s.ListExtractors)
	r.GET("/labels", s.ListLabels)
	r.POST("/text", validateBody, s.HTMLToText)
	r.POST("/tokens", validateBody, s.Tokenize)
	r.POST("/entities", validateBody, s.Extract)
	r.POST("/anonymize", validateBody, s.Anonymize)
}

func (s server) ListExtractors(c *gin.Context) {
	c.JSON(200, s.controller.ListExtractors())
}

func (s server) ListLabels(c *gin.Context) {
	c.JSON(200, s.controller.ListLabels())
}

func (s server) HTMLToText(c *gin.Context) {
	if ct, ok := allowedContentTypeEnumMap[c.ContentType()]; !ok || ct != contentTypeHTML {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be text/html")))
		return
	}

	data, err := s.controller.HTMLToText(c.Request.Body)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Data(200, "text/plain", []byte(data))
}

func (s server) Tokenize(c *gin.Context) {
	ct, ok := allowedContentTypeEnumMap[c.ContentType()]
	if !ok {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be text/html or text/plain")))
		return
	}

	tokens, err := s.controller.Tokenize(c.Request.Body, ct)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, tokens)
}

func (s server) Extract(c *gin.Context) {
	ct, ok := allowedContentTypeEnumMap[c.ContentType()]
	if !ok {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be text/html or text/plain")))
		return
	}

	entities, err := s.controller.Extract(c.Request.Context(), c.Request.Body, ct, c.QueryArray("extractor"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, map[string]interface{}{"entities": entities})
}

func (s server) Anonymize(c *gin.Context) {
	ct, ok := allowedContentTypeEnumMap[c.ContentType()]
	if !ok {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be text/html or text/plain")))
		return
	}

	policy := c.DefaultQuery("policy", anonymizer.PolicyRedact)
	result, err := s.controller.Anonymize(c.Request.Context(), c.Request.Body, ct, policy, c.QueryArray("extractor"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, result)
}

// requestID tags every request with an id, reusing the one the client sent.
func requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Set(lib.RequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func validateBody(c *gin.Context) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
		return
	}
	c.Next()
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, 500, errors.New("abort called on nil error"))
		return
	}
	switch e := err.(type) {
	case HttpError:
		abort(c, e.code, e.error)
	default:
		abort(c, 500, e)
	}
}

func abort(c *gin.Context, code int, err error) {
	switch {
	case code <= 500:
		c.JSON(code, map[string]interface{}{
			"status":  code,
			"message": err.Error(),
		})
		c.Abort()
	default:
		_ = c.AbortWithError(code, err)
	}
}
