package mysql

import (
	"testing"
	"time"

	"p2plend-backend/internal/domain/negotiation"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var t0 = time.Date(2025, 9, 6, 12, 0, 0, 0, time.UTC)

// openTestDB creates an in-memory sqlite DB with the full schema. One
// connection only: each new sqlite connection would see an empty database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeNegotiation(id string, status negotiation.Status, createdAt time.Time) *negotiation.Negotiation {
	return &negotiation.Negotiation{
		NegotiationID: id,
		BorrowerID:    "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Amount:        8000,
		Rate:          1.8,
		TermMonths:    25,
		Status:        status,
		ProposalCount: 1,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func makeProposal(id, negotiationID string, role negotiation.Role, createdAt time.Time) *negotiation.Proposal {
	nid := negotiationID
	return &negotiation.Proposal{
		ProposalID:    id,
		NegotiationID: &nid,
		AuthorID:      string(role)[:1] + "0000000000000000000000000000000",
		AuthorRole:    role,
		Amount:        8000,
		TermMonths:    25,
		SuggestedRate: "1.6-1.9",
		AnalyzedRate:  1.8,
		Negotiable:    true,
		Status:        negotiation.ProposalPending,
		CreatedAt:     createdAt,
	}
}
