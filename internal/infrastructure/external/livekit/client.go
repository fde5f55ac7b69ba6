package livekit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// Client wraps the LiveKit room operations the pipeline needs: one room per
// meeting session, join tokens for participants, and the live roster.
type Client interface {
	EnsureRoom(ctx context.Context, sessionID, title string) (*RoomInfo, error)
	CloseRoom(ctx context.Context, sessionID string) error
	GenerateToken(sessionID, identity, displayName string) (string, error)
	ListParticipants(ctx context.Context, sessionID string) ([]*ParticipantInfo, error)
}

// RoomInfo holds room information
type RoomInfo struct {
	Name            string
	SID             string
	CreationTime    time.Time
	NumParticipants int32
	Metadata        string
}

// ParticipantInfo holds participant information
type ParticipantInfo struct {
	SID      string
	Identity string
	Name     string
	JoinedAt time.Time
}

const (
	roomEmptyTimeout     = 300 // seconds, auto-delete if nobody joins
	roomDepartureTimeout = 30  // seconds, auto-delete after the last leave
	roomMaxParticipants  = 50
	tokenValidity        = 12 * time.Hour
)

// realClient talks to a LiveKit server
type realClient struct {
	roomClient *lksdk.RoomServiceClient
	apiKey     string
	apiSecret  string
}

// NewClient creates a LiveKit client. With Mock enabled the returned client
// simulates rooms in memory so the pipeline runs without a LiveKit server.
func NewClient(cfg *config.LiveKitConfig) Client {
	if cfg.Mock {
		return &mockClient{
			apiKey:    cfg.APIKey,
			apiSecret: cfg.APISecret,
		}
	}

	return &realClient{
		roomClient: lksdk.NewRoomServiceClient(cfg.Host, cfg.APIKey, cfg.APISecret),
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
	}
}

// EnsureRoom creates the session's room. LiveKit treats CreateRoom as an
// upsert, so calling it for an existing room returns the current room.
func (c *realClient) EnsureRoom(ctx context.Context, sessionID, title string) (*RoomInfo, error) {
	room, err := c.roomClient.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:             sessionID,
		MaxParticipants:  roomMaxParticipants,
		EmptyTimeout:     roomEmptyTimeout,
		DepartureTimeout: roomDepartureTimeout,
		Metadata:         title,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure room: %w", err)
	}

	return &RoomInfo{
		Name:            room.Name,
		SID:             room.Sid,
		CreationTime:    time.Unix(room.CreationTime, 0),
		NumParticipants: int32(room.NumParticipants),
		Metadata:        room.Metadata,
	}, nil
}

// CloseRoom deletes the session's room, disconnecting remaining participants
func (c *realClient) CloseRoom(ctx context.Context, sessionID string) error {
	_, err := c.roomClient.DeleteRoom(ctx, &livekit.DeleteRoomRequest{
		Room: sessionID,
	})
	if err != nil {
		return fmt.Errorf("failed to close room: %w", err)
	}
	return nil
}

// GenerateToken issues a join token scoped to the session's room
func (c *realClient) GenerateToken(sessionID, identity, displayName string) (string, error) {
	return signToken(c.apiKey, c.apiSecret, sessionID, identity, displayName)
}

// ListParticipants returns the live roster of the session's room
func (c *realClient) ListParticipants(ctx context.Context, sessionID string) ([]*ParticipantInfo, error) {
	resp, err := c.roomClient.ListParticipants(ctx, &livekit.ListParticipantsRequest{
		Room: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants := make([]*ParticipantInfo, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		participants = append(participants, &ParticipantInfo{
			SID:      p.Sid,
			Identity: p.Identity,
			Name:     p.Name,
			JoinedAt: time.Unix(p.JoinedAt, 0),
		})
	}

	return participants, nil
}

func signToken(apiKey, apiSecret, room, identity, displayName string) (string, error) {
	canPublish := true
	canSubscribe := true

	at := auth.NewAccessToken(apiKey, apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin:     true,
		Room:         room,
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}

	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(displayName).
		SetValidFor(tokenValidity)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// mockClient simulates rooms in memory for development and tests
type mockClient struct {
	apiKey    string
	apiSecret string
}

func (m *mockClient) EnsureRoom(ctx context.Context, sessionID, title string) (*RoomInfo, error) {
	return &RoomInfo{
		Name:         sessionID,
		SID:          "mock-sid-" + uuid.New().String(),
		CreationTime: time.Now(),
		Metadata:     title,
	}, nil
}

func (m *mockClient) CloseRoom(ctx context.Context, sessionID string) error {
	return nil
}

// GenerateToken signs a real JWT even in mock mode so clients exercise the
// same join path either way.
func (m *mockClient) GenerateToken(sessionID, identity, displayName string) (string, error) {
	key, secret := m.apiKey, m.apiSecret
	if key == "" {
		key, secret = "devkey", "devsecret"
	}
	return signToken(key, secret, sessionID, identity, displayName)
}

func (m *mockClient) ListParticipants(ctx context.Context, sessionID string) ([]*ParticipantInfo, error) {
	return []*ParticipantInfo{}, nil
}
