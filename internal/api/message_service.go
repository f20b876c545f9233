package api

import (
	"context"

	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/wire"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 200
)

func (s *ChatService) ListMessages(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	id, err := required(req, "conv_id")
	if err != nil {
		return nil, err
	}
	return wire.EncodeMessages(s.chats.Messages(id)), nil
}

func (s *ChatService) SendText(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.text(req, s.chats.SendText)
}

func (s *ChatService) SimulateIncomingText(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.text(req, s.chats.SimulateIncomingText)
}

func (s *ChatService) text(req *structpb.Struct, op func(convID, text string) (chat.Message, bool)) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	id, err := required(req, "conv_id")
	if err != nil {
		return nil, err
	}
	msg, ok := op(id, wire.Str(req, "text"))
	return wire.EncodeSent(msg, ok), nil
}

// SearchMessages flushes pending changes so that the SQLite copy matches
// memory, then searches it.
func (s *ChatService) SearchMessages(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, grpcstatus.Errorf(codes.Unavailable, "search index not available")
	}
	query, err := required(req, "query")
	if err != nil {
		return nil, err
	}
	limit := int(wire.Int(req, "limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	if s.worker != nil {
		if _, err := s.worker.Flush(ctx); err != nil {
			s.logger.Warn("pre-search checkpoint failed", zap.Error(err))
		}
	}

	results, err := s.db.SearchMessages(ctx, query, wire.Str(req, "conv_id"), limit)
	if err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "search messages: %v", err)
	}
	hits := make([]wire.SearchHit, len(results))
	for i, r := range results {
		hits[i] = wire.SearchHit{Message: r.Message, Snippet: r.Snippet}
	}
	return wire.EncodeSearchHits(hits), nil
}
