package anthropic

import (
	"context"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func TestFromSDKMessage(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID:         "msg_test_123",
		Model:      "claude-sonnet-4-5-20250929",
		StopReason: "end_turn",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "Hello "},
			{Type: "text", Text: "farmer"},
		},
		Usage: sdk.Usage{
			InputTokens:  100,
			OutputTokens: 50,
		},
	}

	resp := fromSDKMessage(sdkMsg)
	require.NotNil(t, resp)
	assert.Equal(t, "msg_test_123", resp.ID)
	assert.Equal(t, "claude-sonnet-4-5-20250929", resp.Model)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "Hello farmer", resp.Text)
	assert.Equal(t, int64(100), resp.Usage.InputTokens)
	assert.Equal(t, int64(50), resp.Usage.OutputTokens)
}

func TestFromSDKMessage_NonTextBlocksskipped(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID: "msg_tool",
		Content: []sdk.ContentBlockUnion{
			{Type: "tool_use"},
			{Type: "text", Text: "answer"},
		},
	}

	resp := fromSDKMessage(sdkMsg)
	require.NotNil(t, resp)
	assert.Equal(t, "answer", resp.Text)
}

func TestToSDKMessages_Roles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
}

func TestToSDKMessages_WithImage(t *testing.T) {
	msgs := toSDKMessages([]Message{{
		Role:    "user",
		Content: "what disease is this",
		Image:   &ImageData{MediaType: "image/jpeg", Data: "aGVsbG8="},
	}})
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Content, 2)
	assert.NotNil(t, msgs[0].Content[0].OfText)
	assert.NotNil(t, msgs[0].Content[1].OfImage)
}
