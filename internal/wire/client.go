package wire

import (
	"context"

	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/keyboard"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a typed ChatService client.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) call(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Status(ctx context.Context) (Status, error) {
	resp, err := c.call(ctx, MethodGetStatus, Empty())
	if err != nil {
		return Status{}, err
	}
	return DecodeStatus(resp), nil
}

func (c *Client) Conversations(ctx context.Context) (ConversationList, error) {
	resp, err := c.call(ctx, MethodListConversations, Empty())
	if err != nil {
		return ConversationList{}, err
	}
	return DecodeConversationList(resp), nil
}

func (c *Client) Conversation(ctx context.Context, convID string) (ConversationItem, error) {
	resp, err := c.call(ctx, MethodGetConversation, IDRequest("conv_id", convID))
	if err != nil {
		return ConversationItem{}, err
	}
	return DecodeConversation(resp), nil
}

// Mutate runs one of the single-conversation mutations (OpenConversation,
// MarkRead, MarkUnread, TogglePin, ToggleMute). found is false when the
// conversation does not exist.
func (c *Client) Mutate(ctx context.Context, method, convID string) (ConversationItem, bool, error) {
	resp, err := c.call(ctx, method, IDRequest("conv_id", convID))
	if err != nil {
		return ConversationItem{}, false, err
	}
	item, found := DecodeFound(resp)
	return item, found, nil
}

func (c *Client) DeleteConversation(ctx context.Context, convID string) (bool, error) {
	resp, err := c.call(ctx, MethodDeleteConversation, IDRequest("conv_id", convID))
	if err != nil {
		return false, err
	}
	return Bool(resp, "found"), nil
}

func (c *Client) DirectConversation(ctx context.Context, contactID string) (ConversationItem, bool, error) {
	resp, err := c.call(ctx, MethodCreateOrGetDirectConversation, IDRequest("contact_id", contactID))
	if err != nil {
		return ConversationItem{}, false, err
	}
	item, found := DecodeFound(resp)
	return item, found, nil
}

func (c *Client) Messages(ctx context.Context, convID string) ([]chat.Message, error) {
	resp, err := c.call(ctx, MethodListMessages, IDRequest("conv_id", convID))
	if err != nil {
		return nil, err
	}
	return DecodeMessages(resp), nil
}

func (c *Client) SendText(ctx context.Context, convID, text string) (chat.Message, bool, error) {
	return c.text(ctx, MethodSendText, convID, text)
}

func (c *Client) SimulateIncomingText(ctx context.Context, convID, text string) (chat.Message, bool, error) {
	return c.text(ctx, MethodSimulateIncomingText, convID, text)
}

func (c *Client) text(ctx context.Context, method, convID, text string) (chat.Message, bool, error) {
	req := IDRequest("conv_id", convID)
	req.Fields["text"] = structpb.NewStringValue(text)
	resp, err := c.call(ctx, method, req)
	if err != nil {
		return chat.Message{}, false, err
	}
	msg, ok := DecodeSent(resp)
	return msg, ok, nil
}

// Search runs a substring search; convID narrows it to one conversation when set.
func (c *Client) Search(ctx context.Context, query, convID string, limit int) ([]SearchHit, error) {
	req := IDRequest("query", query)
	req.Fields["conv_id"] = structpb.NewStringValue(convID)
	req.Fields["limit"] = num(int64(limit))
	resp, err := c.call(ctx, MethodSearchMessages, req)
	if err != nil {
		return nil, err
	}
	return DecodeSearchHits(resp), nil
}

func (c *Client) ContactSections(ctx context.Context) ([]chat.Section, error) {
	resp, err := c.call(ctx, MethodListContactSections, Empty())
	if err != nil {
		return nil, err
	}
	return DecodeSections(resp), nil
}

func (c *Client) Contact(ctx context.Context, contactID string) (chat.Contact, error) {
	resp, err := c.call(ctx, MethodGetContact, IDRequest("contact_id", contactID))
	if err != nil {
		return chat.Contact{}, err
	}
	return DecodeContact(resp), nil
}

func (c *Client) KeyboardLayout(ctx context.Context, in keyboard.Input) (keyboard.State, error) {
	resp, err := c.call(ctx, MethodComputeKeyboardLayout, EncodeKeyboardInput(in))
	if err != nil {
		return keyboard.State{}, err
	}
	return DecodeKeyboardState(resp), nil
}

func (c *Client) Checkpoint(ctx context.Context) (CheckpointResult, error) {
	resp, err := c.call(ctx, MethodCheckpoint, Empty())
	if err != nil {
		return CheckpointResult{}, err
	}
	return DecodeCheckpoint(resp), nil
}

// EventStream receives daemon events until the context ends or the daemon
// goes away.
type EventStream struct {
	stream grpc.ServerStreamingClient[structpb.Struct]
}

func (s *EventStream) Recv() (Event, error) {
	msg, err := s.stream.Recv()
	if err != nil {
		return Event{}, err
	}
	return DecodeEvent(msg), nil
}

// WatchEvents subscribes to bus events whose kind starts with prefix
// ("" for all).
func (c *Client) WatchEvents(ctx context.Context, prefix string) (*EventStream, error) {
	desc := &ServiceDesc.Streams[0]
	cs, err := c.cc.NewStream(ctx, desc, FullMethod(MethodWatchEvents))
	if err != nil {
		return nil, err
	}
	stream := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: cs}
	if err := stream.SendMsg(IDRequest("prefix", prefix)); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &EventStream{stream: stream}, nil
}
