package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/repository"
)

var dbCounter int64

type testEnv struct {
	db         *gorm.DB
	users      *repository.UserRepository
	auth       *AuthService
	userSvc    *UserService
	splitBills *SplitBillService
	expenses   *ExpenseService
	excel      *ExcelService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:services_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&dbCounter, 1))
	db, err := repository.OpenSQLite(dsn, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { repository.Close(db) })

	users := repository.NewUserRepository(db)
	calculator := NewCalculationService()
	settlement := NewSettlementService(calculator)
	splitBills := NewSplitBillService(
		repository.NewSplitBillRepository(db),
		repository.NewParticipantRepository(db),
		users,
		calculator,
		settlement,
	)

	return &testEnv{
		db:    db,
		users: users,
		auth: NewAuthService(users, config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		}),
		userSvc:    NewUserService(users),
		splitBills: splitBills,
		expenses:   NewExpenseService(splitBills, repository.NewExpenseRepository(db), calculator),
		excel:      NewExcelService(splitBills, calculator, settlement),
	}
}

func (e *testEnv) signup(t *testing.T, name, email string) models.UserSummary {
	t.Helper()
	resp, err := e.auth.Signup(context.Background(), &models.SignupRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) newBill(t *testing.T, userID, title string) *models.SplitBill {
	t.Helper()
	bill, err := e.splitBills.Create(context.Background(), userID, &models.CreateSplitBillRequest{Title: title})
	require.NoError(t, err)
	return bill
}

func (e *testEnv) addGuest(t *testing.T, userID, billID, name string) *models.Participant {
	t.Helper()
	p, err := e.splitBills.AddParticipant(context.Background(), userID, billID, &models.AddParticipantRequest{Name: name})
	require.NoError(t, err)
	return p
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }
