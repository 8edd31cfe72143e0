package models

import "fmt"

// Tier уровень подписки.
type Tier string

const (
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// ParseTier разбирает строковое имя уровня. Пустая строка означает basic.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case "", TierBasic:
		return TierBasic, nil
	case TierPremium:
		return TierPremium, nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

// Valid проверяет, что уровень входит в перечисление.
func (t Tier) Valid() bool {
	return t == TierBasic || t == TierPremium
}

// CanUpgradeTo разрешает единственный переход basic -> premium.
func (t Tier) CanUpgradeTo(next Tier) bool {
	return t == TierBasic && next == TierPremium
}

// TierInfo описание уровня для витрины.
type TierInfo struct {
	ID       Tier     `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Features []string `json:"features"`
}

// Tiers возвращает описания уровней в порядке показа.
func Tiers() []TierInfo {
	return []TierInfo{
		{
			ID:    TierBasic,
			Name:  "Affiliate Starter",
			Price: 29.99,
			Features: []string{
				"Access to affiliate network",
				"Direct messaging with members",
				"Basic analytics dashboard",
				"AI-powered monthly action plan",
				"Monthly group coaching call",
				"Resource library access",
			},
		},
		{
			ID:    TierPremium,
			Name:  "Affiliate Pro",
			Price: 59.99,
			Features: []string{
				"Everything in Starter tier",
				"Advanced analytics & tracking",
				"Enhanced action plan (16 tasks)",
				"1-on-1 mentorship calls (2/month)",
				"Exclusive premium content library",
				"Priority support (24h response)",
				"Custom landing page templates",
				"A/B testing tools",
				"Advanced automation workflows",
			},
		},
	}
}

// Info возвращает описание уровня; для неизвестного уровня ok=false.
func (t Tier) Info() (TierInfo, bool) {
	for _, info := range Tiers() {
		if info.ID == t {
			return info, true
		}
	}
	return TierInfo{}, false
}
