package usecase

import (
	"context"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type catalogEnv struct {
	repo    *repository.Repository
	catalog CatalogService
	movieID uuid.UUID
	theater uuid.UUID
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()
	ctx := context.Background()

	repo := &repository.Repository{
		Movie:   newFakeMovieRepo(),
		Theater: newFakeTheaterRepo(),
		Showing: newFakeShowingRepo(),
		Seat:    newFakeSeatRepo(),
	}
	catalog := NewCatalogService(repo, zap.NewNop())

	movie := &entity.Movie{Base: entity.Base{ID: uuid.New()}, Title: "Interstellar", Genre: "Sci-Fi", Year: 2014}
	require.NoError(t, repo.Movie.Create(ctx, movie))

	theater := &entity.Theater{Base: entity.Base{ID: uuid.New()}, Name: "Grand", Location: "Mumbai"}
	require.NoError(t, repo.Theater.Create(ctx, theater))

	return &catalogEnv{repo: repo, catalog: catalog, movieID: movie.ID, theater: theater.ID}
}

func TestCreateShowingSeedsSeats(t *testing.T) {
	t.Parallel()
	env := newCatalogEnv(t)
	ctx := context.Background()

	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	showing, err := env.catalog.CreateShowing(ctx, &request.CreateShowingRequest{
		MovieID:   env.movieID.String(),
		TheaterID: env.theater.String(),
		ShowDate:  date,
		ShowTime:  "19:30",
	})
	require.NoError(t, err)

	showingID, err := uuid.Parse(showing.ID)
	require.NoError(t, err)

	seats, err := env.repo.Seat.FindByShowingID(ctx, showingID)
	require.NoError(t, err)
	assert.Len(t, seats, 120)
	for _, seat := range seats {
		assert.Equal(t, entity.SeatAvailable, seat.State)
	}
}

func TestCreateShowingRejectsPastStart(t *testing.T) {
	t.Parallel()
	env := newCatalogEnv(t)

	date := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, err := env.catalog.CreateShowing(context.Background(), &request.CreateShowingRequest{
		MovieID:   env.movieID.String(),
		TheaterID: env.theater.String(),
		ShowDate:  date,
		ShowTime:  "19:30",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateShowingUnknownMovie(t *testing.T) {
	t.Parallel()
	env := newCatalogEnv(t)

	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	_, err := env.catalog.CreateShowing(context.Background(), &request.CreateShowingRequest{
		MovieID:   uuid.New().String(),
		TheaterID: env.theater.String(),
		ShowDate:  date,
		ShowTime:  "19:30",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListShowingsCountsAvailability(t *testing.T) {
	t.Parallel()
	env := newCatalogEnv(t)
	ctx := context.Background()

	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	showing, err := env.catalog.CreateShowing(ctx, &request.CreateShowingRequest{
		MovieID:   env.movieID.String(),
		TheaterID: env.theater.String(),
		ShowDate:  date,
		ShowTime:  "21:00",
	})
	require.NoError(t, err)

	showingID, err := uuid.Parse(showing.ID)
	require.NoError(t, err)
	_, err = env.repo.Seat.TryHold(ctx, showingID, []string{"A1", "A2"}, uuid.New(), time.Now().Add(5*time.Minute))
	require.NoError(t, err)

	list, err := env.catalog.ListShowings(ctx, &request.ListShowingsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 120, list[0].TotalSeats)
	assert.Equal(t, 118, list[0].AvailableSeats)
}
