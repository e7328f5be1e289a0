package domain

import (
	"time"

	"github.com/google/uuid"
)

type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

func (t Tier) IsValid() bool {
	return t == TierStandard || t == TierPremium
}

// User carries only what fee computation needs. Tier is mutated by an
// external subscription-billing process; the engine treats it as read-only.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Tier      Tier
	Referral  bool
	CreatedAt time.Time
}
