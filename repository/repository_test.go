package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fadhlanhapp/splitbill-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := OpenSQLite(dsn, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { Close(db) })
	return db
}

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, repo *UserRepository, id, name, email string) *models.User {
	t.Helper()
	user := &models.User{ID: id, Name: name, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_FindAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	seedUser(t, repo, "u1", "Alice Wonder", "alice@example.com")
	seedUser(t, repo, "u2", "Bob", "bob@example.com")
	seedUser(t, repo, "u3", "alicia", "ally@example.com")

	found, err := repo.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "u2", found.ID)

	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, err := repo.Search(ctx, "ALI", "u1", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u3", users[0].ID)

	users, err = repo.Search(ctx, "example", "u1", 1)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSplitBillRepository_Access(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	bills := NewSplitBillRepository(db)
	participants := NewParticipantRepository(db)

	seedUser(t, users, "owner", "Owner", "owner@example.com")
	seedUser(t, users, "friend", "Friend", "friend@example.com")
	seedUser(t, users, "stranger", "Stranger", "stranger@example.com")

	bill := &models.SplitBill{
		ID:          "b1",
		Title:       "Dinner",
		CreatedByID: "owner",
		Participants: []models.Participant{
			*models.NewParticipant("p-owner", "b1", "Owner", nil, strPtr("owner")),
		},
	}
	require.NoError(t, bills.Create(ctx, bill))
	require.NoError(t, participants.Create(ctx, models.NewParticipant("p-friend", "b1", "Friend", nil, strPtr("friend"))))
	require.NoError(t, participants.Create(ctx, models.NewParticipant("p-guest", "b1", "Guest", nil, nil)))

	got, err := bills.FindAccessible(ctx, "b1", "friend")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Participants, 3)
	assert.Equal(t, "p-owner", got.Participants[0].ID)

	denied, err := bills.FindAccessible(ctx, "b1", "stranger")
	require.NoError(t, err)
	assert.Nil(t, denied)

	list, err := bills.ListAccessible(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = bills.ListAccessible(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, list)

	registered, err := participants.FindByBillAndUser(ctx, "b1", "friend")
	require.NoError(t, err)
	require.NotNil(t, registered)
	assert.True(t, registered.IsRegistered)

	removed, err := participants.Delete(ctx, "other-bill", "p-guest")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = participants.Delete(ctx, "b1", "p-guest")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestExpenseRepository_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, NewUserRepository(db), "owner", "Owner", "owner@example.com")
	bills := NewSplitBillRepository(db)
	expenses := NewExpenseRepository(db)

	require.NoError(t, bills.Create(ctx, &models.SplitBill{ID: "b1", Title: "Trip", CreatedByID: "owner"}))

	expense := &models.Expense{
		ID:          "e1",
		SplitBillID: "b1",
		Kind:        "itemized",
		Title:       "Lunch",
		Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Amount:      20,
		Items: []models.ExpenseItem{
			{ID: "i1", ExpenseID: "e1", Name: "Noodles", Quantity: 2, Price: 10, ParticipantID: "p1"},
		},
		Participants: []models.ExpenseParticipant{
			{ID: "ep1", ExpenseID: "e1", ParticipantID: "p1", Amount: 20},
		},
	}
	require.NoError(t, expenses.Create(ctx, expense))

	loaded, err := bills.FindAccessible(ctx, "b1", "owner")
	require.NoError(t, err)
	require.Len(t, loaded.Expenses, 1)
	assert.Len(t, loaded.Expenses[0].Items, 1)
	assert.Len(t, loaded.Expenses[0].Participants, 1)

	found, err := expenses.Delete(ctx, "other-bill", "e1")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = expenses.Delete(ctx, "b1", "e1")
	require.NoError(t, err)
	assert.True(t, found)

	var itemCount int64
	require.NoError(t, db.Model(&models.ExpenseItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestSplitBillRepository_MutationReordersList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, NewUserRepository(db), "owner", "Owner", "owner@example.com")
	bills := NewSplitBillRepository(db)
	participants := NewParticipantRepository(db)

	require.NoError(t, bills.Create(ctx, &models.SplitBill{ID: "old", Title: "Old", CreatedByID: "owner"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, bills.Create(ctx, &models.SplitBill{ID: "new", Title: "New", CreatedByID: "owner"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, participants.Create(ctx, models.NewParticipant("p-guest", "old", "Guest", nil, nil)))

	list, err := bills.ListAccessible(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "old", list[0].ID)
}

func TestUserRepository_SearchIsLiteral(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	seedUser(t, repo, "u1", "Alice", "alice@example.com")
	seedUser(t, repo, "u2", "Bob", "bob@example.com")
	seedUser(t, repo, "u3", "Carol", "carol@example.com")
	seedUser(t, repo, "u4", "Dee_Dee 100%", "dee@example.com")

	for _, query := range []string{"__", "%%", "a_", `\`} {
		users, err := repo.Search(ctx, query, "u1", 10)
		require.NoError(t, err)
		assert.Empty(t, users, "query %q", query)
	}

	users, err := repo.Search(ctx, "e_d", "u1", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u4", users[0].ID)

	users, err = repo.Search(ctx, "0%", "u1", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u4", users[0].ID)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "u1", "Alice", "alice@example.com")

	err := repo.Create(ctx, &models.User{ID: "u2", Name: "Other Alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestParticipantRepository_DuplicateAccountRejected(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	seedUser(t, users, "owner", "Owner", "owner@example.com")
	seedUser(t, users, "bob", "Bob", "bob@example.com")
	bills := NewSplitBillRepository(db)
	participants := NewParticipantRepository(db)

	require.NoError(t, bills.Create(ctx, &models.SplitBill{ID: "b1", Title: "Dinner", CreatedByID: "owner"}))
	require.NoError(t, bills.Create(ctx, &models.SplitBill{ID: "b2", Title: "Lunch", CreatedByID: "owner"}))
	require.NoError(t, participants.Create(ctx, models.NewParticipant("p1", "b1", "Bob", nil, strPtr("bob"))))

	err := participants.Create(ctx, models.NewParticipant("p2", "b1", "Bob", nil, strPtr("bob")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)

	// Bypassing the repository hits the same index.
	err = db.Omit("User").Create(models.NewParticipant("p3", "b1", "Bob", nil, strPtr("bob"))).Error
	assert.True(t, isDuplicateKey(err))

	// The same account on another bill and any number of guests are fine.
	require.NoError(t, participants.Create(ctx, models.NewParticipant("p4", "b2", "Bob", nil, strPtr("bob"))))
	require.NoError(t, participants.Create(ctx, models.NewParticipant("g1", "b1", "Guest", nil, nil)))
	require.NoError(t, participants.Create(ctx, models.NewParticipant("g2", "b1", "Guest", nil, nil)))

	var count int64
	require.NoError(t, db.Model(&models.Participant{}).Where("split_bill_id = ? AND user_id = ?", "b1", "bob").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, isDuplicateKey(nil))
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(&pq.Error{Code: "23505"}))
	assert.False(t, isDuplicateKey(&pq.Error{Code: "23503"}))
	assert.False(t, isDuplicateKey(gorm.ErrRecordNotFound))
}
