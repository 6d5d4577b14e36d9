package services

import (
	"context"

	"github.com/dmitrijs2005/agentdesk/internal/client/cache"
	"github.com/dmitrijs2005/agentdesk/internal/client/client"
	"github.com/dmitrijs2005/agentdesk/internal/client/models"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

// prefetchLimit bounds concurrent warmup requests.
const prefetchLimit = 4

// RoomService reads and creates rooms.
type RoomService interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, req models.CreateRoomRequest) (string, error)
	Questions(ctx context.Context, roomID string) ([]models.Question, error)
	Prefetch(ctx context.Context, roomIDs ...string) error
}

type roomService struct {
	client client.Client
	cache  *cache.Cache
	log    logging.Logger
}

func NewRoomService(c client.Client, rc *cache.Cache, log logging.Logger) RoomService {
	if log == nil {
		log = logging.Nop()
	}
	return &roomService{client: c, cache: rc, log: log.With("service", "rooms")}
}

func (s *roomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return cache.Query(ctx, s.cache, cache.RoomsKey, s.client.ListRooms)
}

// CreateRoom creates a room and marks the room list stale.
func (s *roomService) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	resp, err := s.client.CreateRoom(ctx, req)
	if err != nil {
		return "", err
	}
	s.cache.Invalidate(cache.RoomsKey)
	return resp.RoomID, nil
}

func (s *roomService) Questions(ctx context.Context, roomID string) ([]models.Question, error) {
	return cache.Query(ctx, s.cache, cache.RoomQuestionsKey(roomID), func(ctx context.Context) ([]models.Question, error) {
		return s.client.RoomQuestions(ctx, roomID)
	})
}

// Prefetch warms the cache with the current user and the question lists of
// roomIDs. The first failure is returned; the other reads still complete.
func (s *roomService) Prefetch(ctx context.Context, roomIDs ...string) error {
	var g errgroup.Group
	g.SetLimit(prefetchLimit)

	g.Go(func() error {
		_, err := cache.Query(ctx, s.cache, cache.CurrentUserKey, s.client.CurrentUser)
		return err
	})
	for _, id := range roomIDs {
		id := id
		g.Go(func() error {
			_, err := s.Questions(ctx, id)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Warn(ctx, "prefetch incomplete", "rooms", len(roomIDs), "error", err)
		return err
	}
	return nil
}
