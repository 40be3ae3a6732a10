package services

import (
	"log"
	"os"
	"testing"

	"referral-service/internal/models"
	"referral-service/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB-backed tests run against the MySQL instance in DATABASE_URL and skip
// when it is not configured.

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Skipping DB tests: DATABASE_URL not set")
		os.Exit(m.Run())
	}

	var err error
	testDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		testDB = nil
		os.Exit(m.Run())
	}

	if err := testDB.AutoMigrate(
		&models.User{},
		&models.ReferralEdge{},
		&models.CommissionConfig{},
		&models.CommissionRecord{},
		&models.CommissionAccount{},
		&models.Withdrawal{},
		&models.ArchivedCommission{},
	); err != nil {
		log.Printf("Failed to migrate test database: %v", err)
		testDB = nil
	}

	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("Database not configured")
	}
}

func cleanup() {
	if testDB == nil {
		return
	}
	for _, table := range []string{
		"distribution_commissions",
		"archived_commissions",
		"commission_withdrawals",
		"user_commission_accounts",
		"user_invitations",
		"distribution_config",
		"users",
	} {
		testDB.Exec("DELETE FROM " + table)
	}
}

func createUser(t *testing.T, id int, username, code string) models.User {
	t.Helper()
	user := models.User{ID: id, Username: username}
	if code != "" {
		user.InvitationCode = &code
	}
	require.NoError(t, testDB.Create(&user).Error)
	return user
}

func seedRates(t *testing.T, r1, r2, r3 float64) {
	t.Helper()
	seedConfig(t, r1, r2, r3, 10, 0)
}

func seedConfig(t *testing.T, r1, r2, r3, minWithdrawal, feeRate float64) {
	t.Helper()
	configs := []models.CommissionConfig{
		{Level: 1, CommissionRate: r1, IsActive: true, MinWithdrawalAmount: minWithdrawal, WithdrawalFeeRate: feeRate},
		{Level: 2, CommissionRate: r2, IsActive: true, MinWithdrawalAmount: minWithdrawal, WithdrawalFeeRate: feeRate},
		{Level: 3, CommissionRate: r3, IsActive: true, MinWithdrawalAmount: minWithdrawal, WithdrawalFeeRate: feeRate},
	}
	require.NoError(t, testDB.Create(&configs).Error)
}

func accountOf(t *testing.T, userID int) models.CommissionAccount {
	t.Helper()
	var account models.CommissionAccount
	require.NoError(t, testDB.Where("user_id = ?", userID).First(&account).Error)
	return account
}

// assertConservation checks the ledger conservation law on one account:
// total = available + frozen + withdrawn.
func assertConservation(t *testing.T, userID int) {
	t.Helper()
	a := accountOf(t, userID)
	assert.InDelta(t, a.TotalCommission, a.AvailableCommission+a.FrozenCommission+a.WithdrawnCommission, 0.001)
	assert.GreaterOrEqual(t, a.AvailableCommission, 0.0)
	assert.GreaterOrEqual(t, a.FrozenCommission, 0.0)
}

func requireKind(t *testing.T, err error, kind common.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind)
}
