package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/mcdev12/mockdraft/go/internal/config"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

// DraftServiceName is the fully-qualified name of the DraftService service.
const DraftServiceName = "draft.v1.DraftService"

const (
	DraftServiceCreateSessionProcedure        = "/draft.v1.DraftService/CreateSession"
	DraftServiceStartDraftProcedure           = "/draft.v1.DraftService/StartDraft"
	DraftServiceMakePickProcedure             = "/draft.v1.DraftService/MakePick"
	DraftServiceForcePickProcedure            = "/draft.v1.DraftService/ForcePick"
	DraftServiceGetSnapshotProcedure          = "/draft.v1.DraftService/GetSnapshot"
	DraftServiceListAvailablePlayersProcedure = "/draft.v1.DraftService/ListAvailablePlayers"
	DraftServiceStopDraftProcedure            = "/draft.v1.DraftService/StopDraft"
)

// DraftApp defines what the service layer needs from the draft application
type DraftApp interface {
	CreateSession(ctx context.Context) uuid.UUID
	StartDraft(ctx context.Context, id uuid.UUID, spec models.RosterSpec, params models.DraftParameters) (Snapshot, error)
	MakePick(ctx context.Context, id uuid.UUID, playerID int64) (models.Pick, error)
	ForcePick(ctx context.Context, id uuid.UUID, playerID int64) (models.Pick, error)
	GetSnapshot(ctx context.Context, id uuid.UUID) (Snapshot, error)
	ListAvailablePlayers(ctx context.Context, id uuid.UUID, filter AvailableFilter) ([]AvailablePlayer, error)
	StopDraft(ctx context.Context, id uuid.UUID) error
}

// Service implements the DraftService Connect API. Messages are well-known
// protobuf types carrying the same JSON shapes as the HTTP gateway.
type Service struct {
	app      DraftApp
	defaults config.Settings
	intn     func(n int) int
}

// NewService creates a new draft Connect service
func NewService(app DraftApp) *Service {
	return &Service{
		app:      app,
		defaults: config.DefaultSettings(),
		intn:     rand.IntN,
	}
}

// WithDefaults sets the settings StartDraft requests are layered over.
func (s *Service) WithDefaults(settings config.Settings) *Service {
	s.defaults = settings
	return s
}

// StartDraftRequest is the setup payload accepted by StartDraft.
type StartDraftRequest struct {
	SessionID string `json:"session_id"`
	config.Settings
}

// MakePickRequest identifies the player drafted with the pick on the clock.
type MakePickRequest struct {
	SessionID string `json:"session_id"`
	PlayerID  int64  `json:"player_id"`
}

// ListAvailablePlayersRequest filters the remaining pool.
type ListAvailablePlayersRequest struct {
	SessionID string `json:"session_id"`
	Position  string `json:"position"`
	Search    string `json:"search"`
}

// CreateSession creates a draft session in the Setup state
func (s *Service) CreateSession(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	id := s.app.CreateSession(ctx)
	return structResponse(map[string]string{"session_id": id.String()})
}

// StartDraft validates the setup and starts the draft
func (s *Service) StartDraft(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	in := StartDraftRequest{Settings: s.defaults}
	if err := fromStruct(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	id, err := uuid.Parse(in.SessionID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	spec, params, err := in.Settings.Resolve(s.intn)
	if err != nil {
		return nil, connectError(fmt.Errorf("%w: %v", ErrInvalidConfiguration, err))
	}

	snap, err := s.app.StartDraft(ctx, id, spec, params)
	if err != nil {
		return nil, connectError(err)
	}
	return structResponse(snap)
}

// MakePick resolves the current pick for the human player
func (s *Service) MakePick(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in MakePickRequest
	if err := fromStruct(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	id, err := uuid.Parse(in.SessionID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	made, err := s.app.MakePick(ctx, id, in.PlayerID)
	if err != nil {
		return nil, connectError(err)
	}
	return structResponse(made)
}

// ForcePick settles a stalled pick with any available player
func (s *Service) ForcePick(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in MakePickRequest
	if err := fromStruct(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	id, err := uuid.Parse(in.SessionID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	made, err := s.app.ForcePick(ctx, id, in.PlayerID)
	if err != nil {
		return nil, connectError(err)
	}
	return structResponse(made)
}

// GetSnapshot returns the session's board, clock and state
func (s *Service) GetSnapshot(ctx context.Context, req *connect.Request[wrapperspb.StringValue]) (*connect.Response[structpb.Struct], error) {
	id, err := uuid.Parse(req.Msg.GetValue())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	snap, err := s.app.GetSnapshot(ctx, id)
	if err != nil {
		return nil, connectError(err)
	}
	return structResponse(snap)
}

// ListAvailablePlayers lists undrafted players with their eligibility
func (s *Service) ListAvailablePlayers(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in ListAvailablePlayersRequest
	if err := fromStruct(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	id, err := uuid.Parse(in.SessionID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	filter, err := ParseAvailableFilter(in.Position, in.Search)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	players, err := s.app.ListAvailablePlayers(ctx, id, filter)
	if err != nil {
		return nil, connectError(err)
	}
	return structResponse(map[string]any{"players": players})
}

// StopDraft cancels pending auto-picks and resets the session
func (s *Service) StopDraft(ctx context.Context, req *connect.Request[wrapperspb.StringValue]) (*connect.Response[emptypb.Empty], error) {
	id, err := uuid.Parse(req.Msg.GetValue())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.app.StopDraft(ctx, id); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// NewDraftServiceHandler builds an HTTP handler from the service implementation. It returns
// the path on which to mount the handler and the handler itself.
func NewDraftServiceHandler(svc *Service, opts ...connect.HandlerOption) (string, http.Handler) {
	createSession := connect.NewUnaryHandler(DraftServiceCreateSessionProcedure, svc.CreateSession, opts...)
	startDraft := connect.NewUnaryHandler(DraftServiceStartDraftProcedure, svc.StartDraft, opts...)
	makePick := connect.NewUnaryHandler(DraftServiceMakePickProcedure, svc.MakePick, opts...)
	forcePick := connect.NewUnaryHandler(DraftServiceForcePickProcedure, svc.ForcePick, opts...)
	getSnapshot := connect.NewUnaryHandler(DraftServiceGetSnapshotProcedure, svc.GetSnapshot, opts...)
	listAvailable := connect.NewUnaryHandler(DraftServiceListAvailablePlayersProcedure, svc.ListAvailablePlayers, opts...)
	stopDraft := connect.NewUnaryHandler(DraftServiceStopDraftProcedure, svc.StopDraft, opts...)

	return "/" + DraftServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DraftServiceCreateSessionProcedure:
			createSession.ServeHTTP(w, r)
		case DraftServiceStartDraftProcedure:
			startDraft.ServeHTTP(w, r)
		case DraftServiceMakePickProcedure:
			makePick.ServeHTTP(w, r)
		case DraftServiceForcePickProcedure:
			forcePick.ServeHTTP(w, r)
		case DraftServiceGetSnapshotProcedure:
			getSnapshot.ServeHTTP(w, r)
		case DraftServiceListAvailablePlayersProcedure:
			listAvailable.ServeHTTP(w, r)
		case DraftServiceStopDraftProcedure:
			stopDraft.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ParseAvailableFilter accepts "", "ALL" or a position name.
func ParseAvailableFilter(position, search string) (AvailableFilter, error) {
	filter := AvailableFilter{Search: search}
	if position == "" || position == "ALL" || position == "all" {
		return filter, nil
	}
	pos, err := models.ParsePosition(position)
	if err != nil {
		return AvailableFilter{}, err
	}
	filter.Position = pos
	return filter, nil
}

// ErrorCode maps draft errors onto Connect codes.
func ErrorCode(err error) connect.Code {
	switch {
	case errors.Is(err, ErrInvalidConfiguration),
		errors.Is(err, ErrIneligiblePosition),
		errors.Is(err, ErrTeamNotFound):
		return connect.CodeInvalidArgument
	case errors.Is(err, ErrSessionNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ErrDraftNotStarted),
		errors.Is(err, ErrDraftComplete),
		errors.Is(err, ErrPlayerNotAvailable),
		errors.Is(err, ErrNotUserTurn),
		errors.Is(err, ErrNoStall):
		return connect.CodeFailedPrecondition
	case errors.Is(err, ErrPickInProgress):
		return connect.CodeAborted
	default:
		return connect.CodeInternal
	}
}

func connectError(err error) *connect.Error {
	return connect.NewError(ErrorCode(err), err)
}

func structResponse(v any) (*connect.Response[structpb.Struct], error) {
	msg, err := toStruct(v)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// toStruct converts v into a Struct through its JSON encoding.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	msg, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("build response: %w", err)
	}
	return msg, nil
}

// fromStruct decodes a Struct into v through its JSON encoding.
func fromStruct(msg *structpb.Struct, v any) error {
	data, err := json.Marshal(msg.AsMap())
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}
