package api

import (
	"context"

	"github.com/matheus3301/chatkit/internal/keyboard"
	"github.com/matheus3301/chatkit/internal/wire"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *ChatService) ListContactSections(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	return wire.EncodeSections(s.chats.ContactsBySections()), nil
}

func (s *ChatService) GetContact(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	id, err := required(req, "contact_id")
	if err != nil {
		return nil, err
	}
	c, ok := s.chats.Contact(id)
	if !ok {
		return nil, grpcstatus.Errorf(codes.NotFound, "contact %q not found", id)
	}
	return wire.EncodeContact(c), nil
}

// ComputeKeyboardLayout is stateless: clients pass back the base window
// height they received last time.
func (s *ChatService) ComputeKeyboardLayout(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return wire.EncodeKeyboardState(keyboard.Update(wire.DecodeKeyboardInput(req))), nil
}
