package api

import (
	"context"
	"time"

	"github.com/matheus3301/chatkit/internal/wire"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *ChatService) GetStatus(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	st := wire.Status{
		Session: s.sessionName,
		Uptime:  time.Since(s.startedAt),
	}
	if s.machine != nil {
		st.State = string(s.machine.Current())
		st.StateSince = s.machine.Since()
	}
	if s.chats != nil {
		st.Conversations, st.Messages = s.chats.Stats()
		st.TotalUnread = s.chats.TotalUnread()
		st.IdentityID, st.IdentityName = s.chats.Me()
	}
	if s.worker != nil {
		st.CheckpointPending = s.worker.Dirty()
	}

	// Populate persisted state from the store.
	if s.db != nil {
		if n, err := s.db.ConversationCount(); err == nil {
			st.StoredConversations = n
		}
		if n, err := s.db.MessageCount(); err == nil {
			st.StoredMessages = n
		}
		if v, _, err := s.db.SchemaVersion(); err == nil {
			st.SchemaVersion = int(v)
		}
		if at, err := s.db.LastSavedAt(ctx); err == nil {
			st.LastCheckpoint = at
		}
	}
	return wire.EncodeStatus(st), nil
}

func (s *ChatService) Checkpoint(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if s.worker == nil {
		return nil, grpcstatus.Errorf(codes.Unavailable, "checkpointing disabled")
	}
	saved, err := s.worker.Flush(ctx)
	if err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "checkpoint: %v", err)
	}
	return wire.EncodeCheckpoint(wire.CheckpointResult{Saved: saved, Version: s.chats.Version()}), nil
}

func (s *ChatService) WatchEvents(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	if s.bus == nil {
		return grpcstatus.Errorf(codes.Unavailable, "event bus not available")
	}
	ch, unsub := s.bus.Subscribe(wire.Str(req, "prefix"), 256)
	defer unsub()

	s.logger.Debug("event watcher attached", zap.String("prefix", wire.Str(req, "prefix")))
	for {
		select {
		case evt := <-ch:
			if err := stream.Send(wire.EncodeEvent(wire.Event{
				Kind:   evt.Kind,
				At:     evt.Timestamp,
				ConvID: evt.ConvID,
			})); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}
