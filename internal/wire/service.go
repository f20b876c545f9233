// Package wire defines the chatkit.v1.ChatService gRPC contract. Requests and
// responses travel as google.protobuf.Struct messages; the codec in this
// package maps them to chat types.
package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "chatkit.v1.ChatService"

const (
	MethodGetStatus                     = "GetStatus"
	MethodListConversations             = "ListConversations"
	MethodGetConversation               = "GetConversation"
	MethodOpenConversation              = "OpenConversation"
	MethodMarkRead                      = "MarkRead"
	MethodMarkUnread                    = "MarkUnread"
	MethodTogglePin                     = "TogglePin"
	MethodToggleMute                    = "ToggleMute"
	MethodDeleteConversation            = "DeleteConversation"
	MethodCreateOrGetDirectConversation = "CreateOrGetDirectConversation"
	MethodListMessages                  = "ListMessages"
	MethodSendText                      = "SendText"
	MethodSimulateIncomingText          = "SimulateIncomingText"
	MethodSearchMessages                = "SearchMessages"
	MethodListContactSections           = "ListContactSections"
	MethodGetContact                    = "GetContact"
	MethodComputeKeyboardLayout         = "ComputeKeyboardLayout"
	MethodCheckpoint                    = "Checkpoint"
	MethodWatchEvents                   = "WatchEvents"
)

// FullMethod returns the gRPC path of a ChatService method.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// ChatServer is the server API for ChatService.
type ChatServer interface {
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListConversations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetConversation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	OpenConversation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MarkRead(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MarkUnread(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TogglePin(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleMute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteConversation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateOrGetDirectConversation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMessages(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SendText(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SimulateIncomingText(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchMessages(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListContactSections(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeKeyboardLayout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Checkpoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchEvents(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

type unaryCall func(ChatServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// UnimplementedChatServer can be embedded to satisfy ChatServer partially.
type UnimplementedChatServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedChatServer) GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetStatus)
}
func (UnimplementedChatServer) ListConversations(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListConversations)
}
func (UnimplementedChatServer) GetConversation(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetConversation)
}
func (UnimplementedChatServer) OpenConversation(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodOpenConversation)
}
func (UnimplementedChatServer) MarkRead(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodMarkRead)
}
func (UnimplementedChatServer) MarkUnread(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodMarkUnread)
}
func (UnimplementedChatServer) TogglePin(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodTogglePin)
}
func (UnimplementedChatServer) ToggleMute(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodToggleMute)
}
func (UnimplementedChatServer) DeleteConversation(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDeleteConversation)
}
func (UnimplementedChatServer) CreateOrGetDirectConversation(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateOrGetDirectConversation)
}
func (UnimplementedChatServer) ListMessages(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListMessages)
}
func (UnimplementedChatServer) SendText(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSendText)
}
func (UnimplementedChatServer) SimulateIncomingText(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSimulateIncomingText)
}
func (UnimplementedChatServer) SearchMessages(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSearchMessages)
}
func (UnimplementedChatServer) ListContactSections(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListContactSections)
}
func (UnimplementedChatServer) GetContact(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetContact)
}
func (UnimplementedChatServer) ComputeKeyboardLayout(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodComputeKeyboardLayout)
}
func (UnimplementedChatServer) Checkpoint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCheckpoint)
}
func (UnimplementedChatServer) WatchEvents(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error {
	return unimplemented(MethodWatchEvents)
}

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ChatServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ChatServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchEventsHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ChatServer).WatchEvents(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// ServiceDesc is the grpc.ServiceDesc for ChatService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetStatus, ChatServer.GetStatus),
		unary(MethodListConversations, ChatServer.ListConversations),
		unary(MethodGetConversation, ChatServer.GetConversation),
		unary(MethodOpenConversation, ChatServer.OpenConversation),
		unary(MethodMarkRead, ChatServer.MarkRead),
		unary(MethodMarkUnread, ChatServer.MarkUnread),
		unary(MethodTogglePin, ChatServer.TogglePin),
		unary(MethodToggleMute, ChatServer.ToggleMute),
		unary(MethodDeleteConversation, ChatServer.DeleteConversation),
		unary(MethodCreateOrGetDirectConversation, ChatServer.CreateOrGetDirectConversation),
		unary(MethodListMessages, ChatServer.ListMessages),
		unary(MethodSendText, ChatServer.SendText),
		unary(MethodSimulateIncomingText, ChatServer.SimulateIncomingText),
		unary(MethodSearchMessages, ChatServer.SearchMessages),
		unary(MethodListContactSections, ChatServer.ListContactSections),
		unary(MethodGetContact, ChatServer.GetContact),
		unary(MethodComputeKeyboardLayout, ChatServer.ComputeKeyboardLayout),
		unary(MethodCheckpoint, ChatServer.Checkpoint),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatchEvents,
			Handler:       watchEventsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "chatkit/v1/chat.proto",
}

// RegisterChatServer registers srv on s.
func RegisterChatServer(s grpc.ServiceRegistrar, srv ChatServer) {
	s.RegisterService(&ServiceDesc, srv)
}
