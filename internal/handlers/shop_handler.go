package handlers

import (
	"net/http"

	"codelingo/internal/hearts"
	"codelingo/internal/service"
)

// ShopHandler handles the coin shop
type ShopHandler struct {
	shopService    *service.ShopService
	profileService *service.ProfileService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopService *service.ShopService, profileService *service.ProfileService) *ShopHandler {
	return &ShopHandler{shopService: shopService, profileService: profileService}
}

// Show returns the shop state: current balance and the refill offer
func (h *ShopHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	profile, err := h.profileService.Refresh(userID)
	if err != nil {
		respondServiceError(w, err, "Failed to load shop")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"coins":             profile.Coins,
		"hearts":            profile.Hearts,
		"max_hearts":        hearts.Max,
		"heart_refill_cost": service.HeartRefillCost,
	})
}

// BuyHearts refills hearts to the cap in exchange for coins
func (h *ShopHandler) BuyHearts(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	profile, err := h.shopService.BuyHearts(userID)
	if err != nil {
		respondServiceError(w, err, "Failed to buy hearts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"hearts":  profile.Hearts,
		"coins":   profile.Coins,
	})
}
