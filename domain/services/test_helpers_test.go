package services

import (
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/testhelpers"

	"github.com/jonboulle/clockwork"
)

var testEpoch = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

// newTestLedger builds a ledger over a fake clock and a recording publisher
func newTestLedger() (*LedgerService, *clockwork.FakeClock, *testhelpers.RecordingPublisher) {
	clock := clockwork.NewFakeClockAt(testEpoch)
	publisher := &testhelpers.RecordingPublisher{}
	ledger := NewLedgerService(clock, NewAchievementEvaluator(entities.Achievements), publisher)
	return ledger, clock, publisher
}

func createTestMember(id string, balance int64) *entities.Member {
	return entities.NewMember(id, "member "+id, id+"@example.com", balance, testEpoch)
}
