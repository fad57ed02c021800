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

package grpcbackend

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
)

const (
	ServiceName   = "anonymizer.Model"
	PredictMethod = "/" + ServiceName + "/Predict"
)

type Config struct {
	Host     string `mapstructure:"host"`
	GrpcPort int    `mapstructure:"grpc_port"`
}

// Backend calls a model service over grpc. Requests and responses are
// google.protobuf.Struct messages mirroring extractor.Request and the spans.
type Backend struct {
	conn grpc.ClientConnInterface
}

func New(conn grpc.ClientConnInterface) *Backend {
	return &Backend{conn: conn}
}

// Dial connects to the model service at the configured address.
func Dial(config Config, opts ...grpc.DialOption) (*Backend, *grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.Dial(fmt.Sprintf("%s:%d", config.Host, config.GrpcPort), opts...)
	if err != nil {
		return nil, nil, err
	}
	return New(conn), conn, nil
}

func (b *Backend) Predict(ctx context.Context, req extractor.Request) ([]extractor.Span, error) {
	in, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := b.conn.Invoke(ctx, PredictMethod, in, out); err != nil {
		return nil, err
	}
	return decodeSpans(out)
}

// Register serves backend as the model service on s.
func Register(s *grpc.Server, backend extractor.Backend) {
	s.RegisterService(&serviceDesc, backend)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*extractor.Backend)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Predict",
			Handler:    predictHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

func predictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := &structpb.Struct{}
	if err := dec(in); err != nil {
		return nil, err
	}
	handle := func(ctx context.Context, req interface{}) (interface{}, error) {
		request := decodeRequest(req.(*structpb.Struct))
		spans, err := srv.(extractor.Backend).Predict(ctx, request)
		if err != nil {
			return nil, err
		}
		return encodeSpans(spans)
	}
	if interceptor == nil {
		return handle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PredictMethod,
	}
	return interceptor(ctx, in, info, handle)
}

func encodeRequest(req extractor.Request) (*structpb.Struct, error) {
	labels := make([]interface{}, len(req.Labels))
	for i, l := range req.Labels {
		labels[i] = l
	}
	return structpb.NewStruct(map[string]interface{}{
		"text":      req.Text,
		"labels":    labels,
		"threshold": req.Threshold,
	})
}

func decodeRequest(s *structpb.Struct) extractor.Request {
	fields := s.GetFields()
	req := extractor.Request{
		Text:      fields["text"].GetStringValue(),
		Threshold: fields["threshold"].GetNumberValue(),
	}
	for _, v := range fields["labels"].GetListValue().GetValues() {
		req.Labels = append(req.Labels, v.GetStringValue())
	}
	return req
}

func encodeSpans(spans []extractor.Span) (*structpb.Struct, error) {
	entities := make([]interface{}, len(spans))
	for i, span := range spans {
		entities[i] = map[string]interface{}{
			"text":  span.Text,
			"label": span.Label,
			"start": span.Start,
			"end":   span.End,
			"score": span.Score,
		}
	}
	return structpb.NewStruct(map[string]interface{}{"entities": entities})
}

func decodeSpans(s *structpb.Struct) ([]extractor.Span, error) {
	values := s.GetFields()["entities"].GetListValue().GetValues()
	spans := make([]extractor.Span, 0, len(values))
	for _, v := range values {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			return nil, fmt.Errorf("model service returned a malformed entity: %v", v)
		}
		spans = append(spans, extractor.Span{
			Text:  fields["text"].GetStringValue(),
			Label: fields["label"].GetStringValue(),
			Start: int(fields["start"].GetNumberValue()),
			End:   int(fields["end"].GetNumberValue()),
			Score: fields["score"].GetNumberValue(),
		})
	}
	return spans, nil
}
