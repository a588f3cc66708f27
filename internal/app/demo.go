package app

import (
	"time"

	"campfind/internal/domain"
)

// DemoIdentity is the account the demo ships with.
var DemoIdentity = domain.Identity{ID: "1", Username: "testuser", Email: "test@example.com"}

const DemoPassword = "password123"

// SeedDemo registers the demo account and its historical booking.
func SeedDemo(dir *Directory, ledger *Ledger) error {
	if err := dir.Seed(DemoIdentity, DemoPassword); err != nil {
		return err
	}
	if len(ledger.List(DemoIdentity.ID)) > 0 {
		return nil
	}
	ledger.Append(DemoIdentity.ID, domain.Booking{
		ID:          "demo-1",
		Account:     DemoIdentity.Username,
		Name:        "王小明",
		Phone:       "0912345678",
		CampName:    "山景露營區",
		RoomName:    "山景豪華帳",
		CheckIn:     "2024-06-15",
		CheckOut:    "2024-06-17",
		Nights:      2,
		TotalPrice:  2400,
		ConfirmedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	return nil
}
