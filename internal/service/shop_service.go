package service

import (
	"errors"
	"time"

	"codelingo/internal/hearts"
	"codelingo/internal/models"
)

// HeartRefillCost is the coin price of refilling hearts to the cap
const HeartRefillCost = 10

var (
	// ErrHeartsFull is returned when buying a refill at full hearts
	ErrHeartsFull = errors.New("hearts are already full")
	// ErrNotEnoughCoins is returned when the user cannot afford the refill
	ErrNotEnoughCoins = errors.New("not enough coins")
)

// ShopService sells heart refills for coins
type ShopService struct {
	profiles *ProfileService
	clock    func() time.Time
}

// NewShopService creates a new shop service
func NewShopService(profiles *ProfileService) *ShopService {
	return &ShopService{profiles: profiles, clock: time.Now}
}

// BuyHearts refills the user's hearts to the cap for HeartRefillCost
// coins and returns the updated profile
func (s *ShopService) BuyHearts(userID int64) (*models.Profile, error) {
	profile, err := s.profiles.Refresh(userID)
	if err != nil {
		return nil, err
	}

	if profile.Hearts >= hearts.Max {
		return nil, ErrHeartsFull
	}
	if profile.Coins < HeartRefillCost {
		return nil, ErrNotEnoughCoins
	}

	profile.Coins -= HeartRefillCost
	profile.Hearts = hearts.Max
	now := s.clock()
	profile.LastHeartUpdate = &now

	if err := s.profiles.Save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
