package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "recordfilter.v1.FilterService"

// FilterServiceServer is the server API for FilterService.
type FilterServiceServer interface {
	Translate(context.Context, *TranslateRequest) (*TranslateResponse, error)
	Evaluate(context.Context, *EvaluateRequest) (*EvaluateResponse, error)
	CollectFields(context.Context, *CollectFieldsRequest) (*CollectFieldsResponse, error)
	SaveTemplate(context.Context, *SaveTemplateRequest) (*TemplateResponse, error)
	GetTemplate(context.Context, *GetTemplateRequest) (*TemplateResponse, error)
	ListTemplates(context.Context, *ListTemplatesRequest) (*ListTemplatesResponse, error)
	DeleteTemplate(context.Context, *DeleteTemplateRequest) (*DeleteTemplateResponse, error)
}

// FilterServiceDesc describes FilterService for grpc.Server.RegisterService.
// Messages are JSON (see codec.go), so the descriptor is written by hand
// instead of generated.
var FilterServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FilterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Translate", FilterServiceServer.Translate),
		unary("Evaluate", FilterServiceServer.Evaluate),
		unary("CollectFields", FilterServiceServer.CollectFields),
		unary("SaveTemplate", FilterServiceServer.SaveTemplate),
		unary("GetTemplate", FilterServiceServer.GetTemplate),
		unary("ListTemplates", FilterServiceServer.ListTemplates),
		unary("DeleteTemplate", FilterServiceServer.DeleteTemplate),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "recordfilter/v1/filter_service",
}

// RegisterFilterServiceServer registers srv on s.
func RegisterFilterServiceServer(s grpc.ServiceRegistrar, srv FilterServiceServer) {
	s.RegisterService(&FilterServiceDesc, srv)
}

// unary builds the method descriptor for one request/response method.
func unary[Req, Resp any](method string, call func(FilterServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FilterServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(FilterServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls FilterService over a gRPC connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// invoke performs one unary call with the JSON content subtype.
func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Translate(ctx context.Context, in *TranslateRequest, opts ...grpc.CallOption) (*TranslateResponse, error) {
	return invoke[TranslateResponse](ctx, c, "Translate", in, opts)
}

func (c *Client) Evaluate(ctx context.Context, in *EvaluateRequest, opts ...grpc.CallOption) (*EvaluateResponse, error) {
	return invoke[EvaluateResponse](ctx, c, "Evaluate", in, opts)
}

func (c *Client) CollectFields(ctx context.Context, in *CollectFieldsRequest, opts ...grpc.CallOption) (*CollectFieldsResponse, error) {
	return invoke[CollectFieldsResponse](ctx, c, "CollectFields", in, opts)
}

func (c *Client) SaveTemplate(ctx context.Context, in *SaveTemplateRequest, opts ...grpc.CallOption) (*TemplateResponse, error) {
	return invoke[TemplateResponse](ctx, c, "SaveTemplate", in, opts)
}

func (c *Client) GetTemplate(ctx context.Context, in *GetTemplateRequest, opts ...grpc.CallOption) (*TemplateResponse, error) {
	return invoke[TemplateResponse](ctx, c, "GetTemplate", in, opts)
}

func (c *Client) ListTemplates(ctx context.Context, in *ListTemplatesRequest, opts ...grpc.CallOption) (*ListTemplatesResponse, error) {
	return invoke[ListTemplatesResponse](ctx, c, "ListTemplates", in, opts)
}

func (c *Client) DeleteTemplate(ctx context.Context, in *DeleteTemplateRequest, opts ...grpc.CallOption) (*DeleteTemplateResponse, error) {
	return invoke[DeleteTemplateResponse](ctx, c, "DeleteTemplate", in, opts)
}
