package api

import (
	"context"
	"time"

	"github.com/matheus3301/chatkit/internal/bus"
	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/checkpoint"
	"github.com/matheus3301/chatkit/internal/status"
	"github.com/matheus3301/chatkit/internal/store"
	"github.com/matheus3301/chatkit/internal/wire"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ChatService implements the ChatService gRPC service on top of the
// in-memory chat store.
type ChatService struct {
	wire.UnimplementedChatServer

	sessionName string
	startedAt   time.Time
	chats       *chat.Store
	db          *store.DB
	worker      *checkpoint.Worker
	machine     *status.Machine
	bus         *bus.Bus
	logger      *zap.Logger
}

// Deps bundles the collaborators of ChatService. DB, Worker and Machine are
// optional.
type Deps struct {
	SessionName string
	Store       *chat.Store
	DB          *store.DB
	Worker      *checkpoint.Worker
	Machine     *status.Machine
	Bus         *bus.Bus
	Logger      *zap.Logger
}

// NewChatService creates the service.
func NewChatService(d Deps) *ChatService {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		sessionName: d.SessionName,
		startedAt:   time.Now(),
		chats:       d.Store,
		db:          d.DB,
		worker:      d.Worker,
		machine:     d.Machine,
		bus:         d.Bus,
		logger:      logger,
	}
}

var _ wire.ChatServer = (*ChatService)(nil)

func (s *ChatService) requireReady() error {
	if s.machine == nil {
		return nil
	}
	if st := s.machine.Current(); st != status.Ready {
		return grpcstatus.Errorf(codes.Unavailable, "daemon is %s", st)
	}
	return nil
}

func required(req *structpb.Struct, key string) (string, error) {
	v := wire.Str(req, key)
	if v == "" {
		return "", grpcstatus.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return v, nil
}

func (s *ChatService) ListConversations(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	convs := s.chats.SortedConversations()
	list := wire.ConversationList{
		Items:       make([]wire.ConversationItem, len(convs)),
		TotalUnread: s.chats.TotalUnread(),
	}
	for i, c := range convs {
		list.Items[i] = wire.ConversationItem{Conversation: c, TimeLabel: s.chats.ConversationTimeLabel(c)}
	}
	return wire.EncodeConversationList(list), nil
}

func (s *ChatService) GetConversation(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	id, err := required(req, "conv_id")
	if err != nil {
		return nil, err
	}
	c, ok := s.chats.Conversation(id)
	if !ok {
		return nil, grpcstatus.Errorf(codes.NotFound, "conversation %q not found", id)
	}
	return wire.EncodeConversation(c, s.chats.ConversationTimeLabel(c)), nil
}

func (s *ChatService) OpenConversation(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(req, s.chats.OpenConversation)
}

func (s *ChatService) MarkRead(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(req, s.chats.MarkRead)
}

func (s *ChatService) MarkUnread(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(req, s.chats.MarkUnread)
}

func (s *ChatService) TogglePin(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(req, s.chats.TogglePin)
}

func (s *ChatService) ToggleMute(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(req, s.chats.ToggleMute)
}

func (s *ChatService) mutate(req *structpb.Struct, op func(string) (chat.Conversation, bool)) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	id, err := required(req, "conv_id")
	if err != nil {
		return nil, err
	}
	c, found := op(id)
	return wire.EncodeFound(c, s.chats.ConversationTimeLabel(c), found), nil
}

func (s *ChatService) DeleteConversation(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	id, err := required(req, "conv_id")
	if err != nil {
		return nil, err
	}
	found := s.chats.DeleteConversation(id)
	return &structpb.Struct{Fields: map[string]*structpb.Value{"found": structpb.NewBoolValue(found)}}, nil
}

func (s *ChatService) CreateOrGetDirectConversation(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	id, err := required(req, "contact_id")
	if err != nil {
		return nil, err
	}
	c, found := s.chats.CreateOrGetDirectConversation(id)
	return wire.EncodeFound(c, s.chats.ConversationTimeLabel(c), found), nil
}
