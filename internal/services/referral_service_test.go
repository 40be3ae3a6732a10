package services

import (
	"testing"

	"referral-service/internal/models"
	"referral-service/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReferralService() *ReferralService {
	return NewReferralService(testDB, NewLedgerService(testDB))
}

// buildChain wires dave -> carol -> bob -> alice (each binding the next one
// up) and returns the service used to do it.
func buildChain(t *testing.T) *ReferralService {
	t.Helper()
	createUser(t, 1, "alice", "CODEA234")
	createUser(t, 2, "bob", "CODEB234")
	createUser(t, 3, "carol", "CODEC234")
	createUser(t, 4, "dave", "CODED234")

	svc := newReferralService()
	require.NoError(t, svc.Bind(2, "CODEA234"))
	require.NoError(t, svc.Bind(3, "CODEB234"))
	require.NoError(t, svc.Bind(4, "CODEC234"))
	return svc
}

func TestBindResolvesThreeLevelChain(t *testing.T) {
	requireDB(t)
	cleanup()

	svc := buildChain(t)

	chain, err := svc.AncestorChain(4)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, ChainMember{UserID: 3, Level: 1}, chain[0])
	assert.Equal(t, ChainMember{UserID: 2, Level: 2}, chain[1])
	assert.Equal(t, ChainMember{UserID: 1, Level: 3}, chain[2])
}

func TestBindChainStopsAtThreeLevels(t *testing.T) {
	requireDB(t)
	cleanup()

	svc := buildChain(t)
	createUser(t, 5, "eve", "CODEE234")
	require.NoError(t, svc.Bind(5, "CODED234"))

	chain, err := svc.AncestorChain(5)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	// Alice is four hops up from eve and out of reach.
	for _, member := range chain {
		assert.NotEqual(t, 1, member.UserID)
	}
}

func TestBindUpdatesInvitedCounters(t *testing.T) {
	requireDB(t)
	cleanup()

	buildChain(t)

	alice := accountOf(t, 1)
	assert.Equal(t, 3, alice.TotalInvited)
	assert.Equal(t, 1, alice.Level1Invited)
	assert.Equal(t, 1, alice.Level2Invited)
	assert.Equal(t, 1, alice.Level3Invited)

	bob := accountOf(t, 2)
	assert.Equal(t, 2, bob.TotalInvited)
	assert.Equal(t, 1, bob.Level1Invited)
	assert.Equal(t, 1, bob.Level2Invited)
	assert.Equal(t, 0, bob.Level3Invited)

	carol := accountOf(t, 3)
	assert.Equal(t, 1, carol.TotalInvited)
	assert.Equal(t, 1, carol.Level1Invited)
}

func TestBindRejectsEmptyCode(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "")
	svc := newReferralService()

	requireKind(t, svc.Bind(1, "  "), common.KindValidation)
}

func TestBindRejectsUnknownCode(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "")
	svc := newReferralService()

	requireKind(t, svc.Bind(1, "NOSUCHCO"), common.KindNotFound)
}

func TestBindRejectsOwnCode(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "CODEA234")
	svc := newReferralService()

	requireKind(t, svc.Bind(1, "CODEA234"), common.KindInvalidOperation)
}

func TestBindRejectsSecondInviter(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "CODEA234")
	createUser(t, 2, "bob", "CODEB234")
	createUser(t, 3, "carol", "")

	svc := newReferralService()
	require.NoError(t, svc.Bind(3, "CODEA234"))
	requireKind(t, svc.Bind(3, "CODEB234"), common.KindConflict)

	// Rebinding the same inviter is a conflict too.
	requireKind(t, svc.Bind(3, "CODEA234"), common.KindConflict)

	// The original edge survives.
	chain, err := svc.AncestorChain(3)
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, 1, chain[0].UserID)
}

func TestBindRejectsCycle(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "CODEA234")
	createUser(t, 2, "bob", "CODEB234")
	createUser(t, 3, "carol", "CODEC234")

	svc := newReferralService()
	require.NoError(t, svc.Bind(2, "CODEA234"))
	require.NoError(t, svc.Bind(3, "CODEB234"))

	// carol descends from alice, so alice binding carol would close a loop.
	requireKind(t, svc.Bind(1, "CODEC234"), common.KindInvalidOperation)
}

func TestBindFailureLeavesNoCounters(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "CODEA234")
	createUser(t, 2, "bob", "")

	svc := newReferralService()
	require.NoError(t, svc.Bind(2, "CODEA234"))
	requireKind(t, svc.Bind(2, "CODEA234"), common.KindConflict)

	alice := accountOf(t, 1)
	assert.Equal(t, 1, alice.TotalInvited)
	assert.Equal(t, 1, alice.Level1Invited)
}

func TestTeamFlattensLevels(t *testing.T) {
	requireDB(t)
	cleanup()

	svc := buildChain(t)

	members, err := svc.Team(1, 3)
	require.NoError(t, err)
	require.Len(t, members, 3)

	byUser := make(map[int]TeamMember, len(members))
	for _, m := range members {
		byUser[m.UserID] = m
	}
	assert.Equal(t, 1, byUser[2].Level)
	assert.Equal(t, "bob", byUser[2].Username)
	assert.Equal(t, 2, byUser[3].Level)
	assert.Equal(t, 3, byUser[4].Level)
}

func TestTeamClampsLevel(t *testing.T) {
	requireDB(t)
	cleanup()

	svc := buildChain(t)

	members, err := svc.Team(1, 1)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 2, members[0].UserID)

	// Out-of-range requests clamp to the supported depth.
	members, err = svc.Team(1, 99)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestTeamIncludesContributedCommission(t *testing.T) {
	requireDB(t)
	cleanup()

	svc := buildChain(t)

	ledger := NewLedgerService(testDB)
	require.NoError(t, ledger.Credit(testDB, 2, 42.50))

	members, err := svc.Team(1, 1)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.InDelta(t, 42.50, members[0].ContributedCommission, 0.001)
}

func TestTeamEmpty(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "CODEA234")
	svc := newReferralService()

	members, err := svc.Team(1, 3)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestBindRecordsInviterCodeOnUser(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "CODEA234")
	createUser(t, 2, "bob", "")

	svc := newReferralService()
	require.NoError(t, svc.Bind(2, "CODEA234"))

	var bob models.User
	require.NoError(t, testDB.First(&bob, 2).Error)
	require.NotNil(t, bob.InviterCode)
	assert.Equal(t, "CODEA234", *bob.InviterCode)
}
