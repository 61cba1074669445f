package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/events"

	"github.com/google/uuid"
)

// In-memory repositories with the same conditional-update semantics as the
// SQL layer, so the race-sensitive paths behave the same under test.

type fakeShowingRepo struct {
	mu       sync.Mutex
	showings map[uuid.UUID]*entity.Showing
}

func newFakeShowingRepo() *fakeShowingRepo {
	return &fakeShowingRepo{showings: make(map[uuid.UUID]*entity.Showing)}
}

func (f *fakeShowingRepo) Create(ctx context.Context, showing *entity.Showing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showings[showing.ID] = showing
	return nil
}

func (f *fakeShowingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showings[id], nil
}

func (f *fakeShowingRepo) FindAll(ctx context.Context, filter repository.ShowingFilter) ([]*entity.Showing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Showing, 0, len(f.showings))
	for _, s := range f.showings {
		out = append(out, s)
	}
	return out, nil
}

type fakeSeatRepo struct {
	mu    sync.Mutex
	seats map[uuid.UUID]map[string]*entity.ShowingSeat
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{seats: make(map[uuid.UUID]map[string]*entity.ShowingSeat)}
}

func (f *fakeSeatRepo) CreateBatch(ctx context.Context, seats []*entity.ShowingSeat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, seat := range seats {
		byLabel, ok := f.seats[seat.ShowingID]
		if !ok {
			byLabel = make(map[string]*entity.ShowingSeat)
			f.seats[seat.ShowingID] = byLabel
		}
		byLabel[seat.SeatLabel] = seat
	}
	return nil
}

func (f *fakeSeatRepo) FindByShowingID(ctx context.Context, showingID uuid.UUID) ([]*entity.ShowingSeat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.ShowingSeat, 0, len(f.seats[showingID]))
	for _, seat := range f.seats[showingID] {
		copy := *seat
		out = append(out, &copy)
	}
	return out, nil
}

func (f *fakeSeatRepo) FindByLabels(ctx context.Context, showingID uuid.UUID, labels []string) ([]*entity.ShowingSeat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.ShowingSeat, 0, len(labels))
	for _, label := range labels {
		if seat, ok := f.seats[showingID][label]; ok {
			copy := *seat
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) TryHold(ctx context.Context, showingID uuid.UUID, labels []string, token uuid.UUID, expiresAt time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	var conflicts []string
	for _, label := range labels {
		seat, ok := f.seats[showingID][label]
		if !ok {
			conflicts = append(conflicts, label)
			continue
		}
		free := seat.State == entity.SeatAvailable ||
			(seat.State == entity.SeatHeld && seat.HoldExpiresAt != nil && !now.Before(*seat.HoldExpiresAt))
		if !free {
			conflicts = append(conflicts, label)
		}
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	for _, label := range labels {
		seat := f.seats[showingID][label]
		seat.State = entity.SeatHeld
		tok := token
		exp := expiresAt
		seat.HoldToken = &tok
		seat.HoldExpiresAt = &exp
		seat.Version++
	}
	return nil, nil
}

func (f *fakeSeatRepo) ConfirmHold(ctx context.Context, token uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	var labels []string
	for _, byLabel := range f.seats {
		for _, seat := range byLabel {
			if seat.State == entity.SeatHeld && seat.HoldToken != nil && *seat.HoldToken == token &&
				seat.HoldExpiresAt != nil && now.Before(*seat.HoldExpiresAt) {
				seat.State = entity.SeatBooked
				seat.HoldExpiresAt = nil
				seat.Version++
				labels = append(labels, seat.SeatLabel)
			}
		}
	}
	return labels, nil
}

func (f *fakeSeatRepo) ReleaseHold(ctx context.Context, token uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var labels []string
	for _, byLabel := range f.seats {
		for _, seat := range byLabel {
			if seat.State == entity.SeatHeld && seat.HoldToken != nil && *seat.HoldToken == token {
				seat.State = entity.SeatAvailable
				seat.HoldToken = nil
				seat.HoldExpiresAt = nil
				seat.Version++
				labels = append(labels, seat.SeatLabel)
			}
		}
	}
	return labels, nil
}

func (f *fakeSeatRepo) ReleaseBooked(ctx context.Context, showingID uuid.UUID, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, label := range labels {
		if seat, ok := f.seats[showingID][label]; ok && seat.State == entity.SeatBooked {
			seat.State = entity.SeatAvailable
			seat.HoldToken = nil
			seat.Version++
		}
	}
	return nil
}

func (f *fakeSeatRepo) ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[uuid.UUID]struct{})
	var tokens []uuid.UUID
	for _, byLabel := range f.seats {
		for _, seat := range byLabel {
			if seat.State == entity.SeatHeld && seat.HoldExpiresAt != nil && !now.Before(*seat.HoldExpiresAt) {
				if seat.HoldToken != nil {
					if _, dup := seen[*seat.HoldToken]; !dup {
						seen[*seat.HoldToken] = struct{}{}
						tokens = append(tokens, *seat.HoldToken)
					}
				}
				seat.State = entity.SeatAvailable
				seat.HoldToken = nil
				seat.HoldExpiresAt = nil
				seat.Version++
			}
		}
	}
	return tokens, nil
}

type fakeHoldRepo struct {
	mu    sync.Mutex
	holds map[uuid.UUID]*entity.Hold
}

func newFakeHoldRepo() *fakeHoldRepo {
	return &fakeHoldRepo{holds: make(map[uuid.UUID]*entity.Hold)}
}

func (f *fakeHoldRepo) Create(ctx context.Context, hold *entity.Hold) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *hold
	f.holds[hold.Token] = &copy
	return nil
}

func (f *fakeHoldRepo) FindByToken(ctx context.Context, token uuid.UUID) (*entity.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hold, ok := f.holds[token]
	if !ok {
		return nil, nil
	}
	copy := *hold
	return &copy, nil
}

func (f *fakeHoldRepo) UpdateStatus(ctx context.Context, token uuid.UUID, from, to entity.HoldStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hold, ok := f.holds[token]
	if !ok || hold.Status != from {
		return false, nil
	}
	hold.Status = to
	return true, nil
}

func (f *fakeHoldRepo) MarkExpired(ctx context.Context, tokens []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range tokens {
		if hold, ok := f.holds[token]; ok && hold.Status == entity.HoldActive {
			hold.Status = entity.HoldExpired
		}
	}
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.bookings {
		if existing.HoldToken == booking.HoldToken {
			return repository.ErrDuplicateHoldToken
		}
	}
	booking.CreatedAt = time.Now()
	copy := *booking
	f.bookings[booking.ID] = &copy
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copy := *booking
	return &copy, nil
}

func (f *fakeBookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.BookingID == bookingID {
			copy := *booking
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByHoldToken(ctx context.Context, token uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.HoldToken == token {
			copy := *booking
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, booking := range f.bookings {
		if booking.UserID != userID {
			continue
		}
		if status != "" && booking.Status != status {
			continue
		}
		copy := *booking
		out = append(out, &copy)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, booking := range f.bookings {
		if booking.UserID == userID && (status == "" || booking.Status == status) {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, paymentStatus entity.PaymentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	if paymentStatus != "" {
		booking.PaymentStatus = paymentStatus
	}
	return true, nil
}

func (f *fakeBookingRepo) Stats(ctx context.Context, userID *uuid.UUID) (*entity.BookingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &entity.BookingStats{CountByStatus: make(map[entity.BookingStatus]int64)}
	for _, booking := range f.bookings {
		if userID != nil && booking.UserID != *userID {
			continue
		}
		stats.TotalBookings++
		stats.CountByStatus[booking.Status]++
		if booking.Status != entity.BookingStatusCancelled {
			stats.TotalRevenue += booking.TotalAmount
		}
	}
	return stats, nil
}

// flakyBookingRepo fails the first n Create calls to exercise ledger-write
// recovery.
type flakyBookingRepo struct {
	*fakeBookingRepo
	mu       sync.Mutex
	failures int
}

func (f *flakyBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return errors.New("temporary outage")
	}
	f.mu.Unlock()
	return f.fakeBookingRepo.Create(ctx, booking)
}

type fakeBookingSeatRepo struct {
	mu    sync.Mutex
	seats map[uuid.UUID][]*entity.BookingSeat
}

func newFakeBookingSeatRepo() *fakeBookingSeatRepo {
	return &fakeBookingSeatRepo{seats: make(map[uuid.UUID][]*entity.BookingSeat)}
}

func (f *fakeBookingSeatRepo) CreateBatch(ctx context.Context, seats []*entity.BookingSeat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, seat := range seats {
		copy := *seat
		f.seats[seat.BookingID] = append(f.seats[seat.BookingID], &copy)
	}
	return nil
}

func (f *fakeBookingSeatRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingSeat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.BookingSeat, 0, len(f.seats[bookingID]))
	for _, seat := range f.seats[bookingID] {
		copy := *seat
		out = append(out, &copy)
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *payment
	f.payments[payment.ID] = &copy
	return nil
}

func (f *fakePaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payment := range f.payments {
		if payment.BookingID == bookingID {
			copy := *payment
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payment, ok := f.payments[id]; ok {
		payment.Status = status
	}
	return nil
}

type fakeMovieRepo struct {
	mu     sync.Mutex
	movies map[uuid.UUID]*entity.Movie
}

func newFakeMovieRepo() *fakeMovieRepo {
	return &fakeMovieRepo{movies: make(map[uuid.UUID]*entity.Movie)}
}

func (f *fakeMovieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *movie
	f.movies[movie.ID] = &copy
	return nil
}

func (f *fakeMovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	movie, ok := f.movies[id]
	if !ok {
		return nil, nil
	}
	copy := *movie
	return &copy, nil
}

func (f *fakeMovieRepo) FindAll(ctx context.Context, genre, search string) ([]*entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Movie, 0, len(f.movies))
	for _, movie := range f.movies {
		copy := *movie
		out = append(out, &copy)
	}
	return out, nil
}

func (f *fakeMovieRepo) Update(ctx context.Context, movie *entity.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *movie
	f.movies[movie.ID] = &copy
	return nil
}

func (f *fakeMovieRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.movies, id)
	return nil
}

type fakeTheaterRepo struct {
	mu       sync.Mutex
	theaters map[uuid.UUID]*entity.Theater
}

func newFakeTheaterRepo() *fakeTheaterRepo {
	return &fakeTheaterRepo{theaters: make(map[uuid.UUID]*entity.Theater)}
}

func (f *fakeTheaterRepo) Create(ctx context.Context, theater *entity.Theater) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *theater
	f.theaters[theater.ID] = &copy
	return nil
}

func (f *fakeTheaterRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	theater, ok := f.theaters[id]
	if !ok {
		return nil, nil
	}
	copy := *theater
	return &copy, nil
}

func (f *fakeTheaterRepo) FindAll(ctx context.Context) ([]*entity.Theater, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Theater, 0, len(f.theaters))
	for _, theater := range f.theaters {
		copy := *theater
		out = append(out, &copy)
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *user
	f.users[user.ID] = &copy
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *session
	f.sessions[session.ID] = &copy
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok || session.RevokedAt != nil || !time.Now().Before(session.ExpiresAt) {
		return nil, nil
	}
	copy := *session
	return &copy, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.sessions[id]; ok {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

// recordingPublisher captures emitted events for assertions.
type recordingPublisher struct {
	mu        sync.Mutex
	confirmed []events.BookingEvent
	cancelled []events.BookingEvent
}

func (p *recordingPublisher) BookingConfirmed(ctx context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, event)
	return nil
}

func (p *recordingPublisher) BookingCancelled(ctx context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
