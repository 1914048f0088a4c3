package domain

import "time"

type MealCategory string

const (
	CategoryClassic     MealCategory = "CLASSIC"
	CategoryHighProtein MealCategory = "HIGH_PROTEIN"
	CategoryLowCarb     MealCategory = "LOW_CARB"
	CategoryPlantBased  MealCategory = "PLANT_BASED"
	CategoryBreakfast   MealCategory = "BREAKFAST"
	CategorySnack       MealCategory = "SNACK"
	CategoryBulk        MealCategory = "BULK"
)

// Nutrition holds per-serving macros. Protein/carbs/fat are grams.
type Nutrition struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type Meal struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	ShortDescription string       `json:"shortDescription,omitempty"`
	Description      string       `json:"description,omitempty"`
	PriceCents       int64        `json:"priceCents"`
	Image            string       `json:"image,omitempty"`
	Category         MealCategory `json:"category"`
	Tags             []string     `json:"tags"`
	Allergens        []string     `json:"allergens,omitempty"`
	IsActive         bool         `json:"isActive"`
	Nutrition        *Nutrition   `json:"nutrition,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}
