package models

// Gamepass represents a purchasable entitlement created on the platform.
type Gamepass struct {
	GamepassID  int64  `json:"gamepass_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Price       int64  `json:"price"`
	IsForSale   bool   `json:"is_for_sale"`
	ProductID   *int64 `json:"product_id"`
}
