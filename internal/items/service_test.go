// internal/items/service_test.go
package items

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/apperr"
	"shareit/internal/bookings"
	"shareit/internal/db"
	"shareit/internal/users"
)

type fixture struct {
	items    Service
	users    users.Service
	bookings bookings.Service
	repo     bookings.Repository
	db       *sqlx.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := db.NewTestDB(t)
	userSvc := users.NewService(users.NewRepository(database))
	bookingRepo := bookings.NewRepository(database)
	bookingSvc := bookings.NewService(bookingRepo, userSvc)
	return &fixture{
		items:    NewService(NewRepository(database), userSvc, bookingSvc),
		users:    userSvc,
		bookings: bookingSvc,
		repo:     bookingRepo,
		db:       database,
	}
}

func (f *fixture) user(t *testing.T, name string) *users.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), name, name+"@example.com")
	require.NoError(t, err)
	return u
}

func boolPtr(b bool) *bool { return &b }

func TestItemCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	item, err := f.items.Create(ctx, owner.ID, CreateItem{
		Name:        "Drill",
		Description: "Cordless power drill",
		Available:   boolPtr(true),
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, owner.ID, item.OwnerID)

	got, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", got.Name)
	assert.Empty(t, got.Comments)
	assert.Nil(t, got.LastBooking)
	assert.Nil(t, got.NextBooking)

	available := false
	updated, err := f.items.Update(ctx, owner.ID, item.ID, UpdateItem{Available: &available})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Drill", updated.Name)

	// A non-owner never sees the item through the update path.
	stranger := f.user(t, "stranger")
	name := "Stolen"
	_, err = f.items.Update(ctx, stranger.ID, item.ID, UpdateItem{Name: &name})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	list, err := f.items.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = f.items.Delete(ctx, stranger.ID, item.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	removed, err := f.items.Delete(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, removed.ID)

	_, err = f.items.GetByID(ctx, item.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	cases := []struct {
		name string
		in   CreateItem
	}{
		{"blank name", CreateItem{Name: " ", Description: "d", Available: boolPtr(true)}},
		{"blank description", CreateItem{Name: "n", Description: "", Available: boolPtr(true)}},
		{"missing available", CreateItem{Name: "n", Description: "d"}},
		{"name too long", CreateItem{Name: strings.Repeat("x", 256), Description: "d", Available: boolPtr(true)}},
		{"description too long", CreateItem{Name: "n", Description: strings.Repeat("x", 513), Available: boolPtr(true)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.items.Create(ctx, owner.ID, tc.in)
			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		})
	}

	_, err := f.items.Create(ctx, 9999, CreateItem{Name: "n", Description: "d", Available: boolPtr(true)})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestLengthLimitsCountCharacters(t *testing.T) {
	// The storage columns hold 255/512 characters, not bytes, so a
	// multibyte name within the limit must pass.
	require.NoError(t, validateName(strings.Repeat("é", 255)))
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(validateName(strings.Repeat("é", 256))))

	require.NoError(t, validateDescription(strings.Repeat("э", 512)))
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(validateDescription(strings.Repeat("э", 513))))
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	mk := func(name, description string, available bool) {
		_, err := f.items.Create(ctx, owner.ID, CreateItem{
			Name: name, Description: description, Available: &available,
		})
		require.NoError(t, err)
	}
	mk("Power Drill", "for holes", true)
	mk("Hand saw", "cuts wood, no drilling", true)
	mk("Drill press", "stationary", false)
	mk("Cotton shirt", "100% cotton", true)

	found, err := f.items.Search(ctx, "dRiLl")
	require.NoError(t, err)
	require.Len(t, found, 2, "matches name or description, available only")

	// LIKE metacharacters in the query match literally.
	found, err = f.items.Search(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Cotton shirt", found[0].Name)

	found, err = f.items.Search(ctx, "100_")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = f.items.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = f.items.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCommentGating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	booker := f.user(t, "booker")

	item, err := f.items.Create(ctx, owner.ID, CreateItem{
		Name: "Tent", Description: "4-person tent", Available: boolPtr(true),
	})
	require.NoError(t, err)

	// No booking at all yet.
	_, err = f.items.AddComment(ctx, booker.ID, item.ID, "great tent")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	now := time.Now()

	// A booking still in progress does not qualify.
	_, err = f.repo.Insert(ctx, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), bookings.StatusApproved)
	require.NoError(t, err)
	_, err = f.items.AddComment(ctx, booker.ID, item.ID, "great tent")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	// A rejected finished booking does not qualify either.
	_, err = f.repo.Insert(ctx, item.ID, booker.ID, now.Add(-4*time.Hour), now.Add(-3*time.Hour), bookings.StatusRejected)
	require.NoError(t, err)
	_, err = f.items.AddComment(ctx, booker.ID, item.ID, "great tent")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	// A finished approved booking unlocks the comment board.
	_, err = f.repo.Insert(ctx, item.ID, booker.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour), bookings.StatusApproved)
	require.NoError(t, err)

	comment, err := f.items.AddComment(ctx, booker.ID, item.ID, "great tent")
	require.NoError(t, err)
	assert.Equal(t, "great tent", comment.Text)
	assert.Equal(t, "booker", comment.AuthorName)
	assert.WithinDuration(t, time.Now(), comment.Created, time.Minute)

	_, err = f.items.AddComment(ctx, booker.ID, item.ID, "  ")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	got, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, comment.ID, got.Comments[0].ID)
}

func TestItemAnnotations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	booker := f.user(t, "booker")

	item, err := f.items.Create(ctx, owner.ID, CreateItem{
		Name: "Kayak", Description: "single seat", Available: boolPtr(true),
	})
	require.NoError(t, err)

	now := time.Now()
	lastID, err := f.repo.Insert(ctx, item.ID, booker.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour), bookings.StatusApproved)
	require.NoError(t, err)
	nextID, err := f.repo.Insert(ctx, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), bookings.StatusApproved)
	require.NoError(t, err)

	got, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastBooking)
	require.NotNil(t, got.NextBooking)
	assert.Equal(t, lastID, got.LastBooking.ID)
	assert.Equal(t, nextID, got.NextBooking.ID)

	list, err := f.items.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].LastBooking)
	assert.Equal(t, lastID, list[0].LastBooking.ID)
}
