package models

import "time"

// CategoryPricing drives the pricing calculator for one service category.
type CategoryPricing struct {
	Category            ServiceCategory `bson:"category" json:"category"`
	BaseSessionPrice    float64         `bson:"baseSessionPrice" json:"baseSessionPrice"`
	BaseSessionDuration float64         `bson:"baseSessionDuration" json:"baseSessionDuration"` // hours
	OvertimeRate        float64         `bson:"overtimeRate" json:"overtimeRate"`               // price per increment
	OvertimeIncrement   int             `bson:"overtimeIncrement" json:"overtimeIncrement"`     // minutes
}

// SessionConfig is the single active pricing configuration document. One entry
// exists per category; the document is seeded with defaults on first access.
type SessionConfig struct {
	ID              string            `bson:"id" json:"id"`
	IsActive        bool              `bson:"isActive" json:"isActive"`
	CategoryPricing []CategoryPricing `bson:"categoryPricing" json:"categoryPricing"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// DefaultCategoryPricing returns the seed pricing table, one entry per category.
func DefaultCategoryPricing() []CategoryPricing {
	defaults := []CategoryPricing{
		{Category: CategoryCleaning, BaseSessionPrice: 3000, BaseSessionDuration: 4},
		{Category: CategoryPlumbing, BaseSessionPrice: 5000, BaseSessionDuration: 2},
		{Category: CategoryElectrical, BaseSessionPrice: 5000, BaseSessionDuration: 2},
		{Category: CategoryGardening, BaseSessionPrice: 3500, BaseSessionDuration: 4},
		{Category: CategoryCooking, BaseSessionPrice: 4000, BaseSessionDuration: 3},
		{Category: CategoryChildcare, BaseSessionPrice: 2500, BaseSessionDuration: 4},
		{Category: CategoryLaundry, BaseSessionPrice: 2000, BaseSessionDuration: 3},
		{Category: CategoryBeauty, BaseSessionPrice: 4500, BaseSessionDuration: 2},
		{Category: CategoryTutoring, BaseSessionPrice: 3000, BaseSessionDuration: 2},
		{Category: CategoryMoving, BaseSessionPrice: 8000, BaseSessionDuration: 4},
	}
	for i := range defaults {
		// Overtime bills at one eighth of the base per half hour by default.
		defaults[i].OvertimeRate = defaults[i].BaseSessionPrice / 8
		defaults[i].OvertimeIncrement = 30
	}
	return defaults
}

// PricingResult is the output of the pricing calculator.
type PricingResult struct {
	BasePrice     float64 `json:"basePrice"`
	OvertimePrice float64 `json:"overtimePrice"`
	TotalPrice    float64 `json:"totalPrice"`
	BaseDuration  float64 `json:"baseDuration"`
	OvertimeHours float64 `json:"overtimeHours"`
}
