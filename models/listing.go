package models

import (
	"time"

	"github.com/google/uuid"
)

// Property types inferred from listing titles
const (
	PropertyTypeFlat      = "Flat"
	PropertyTypePlot      = "Plot"
	PropertyTypeHouse     = "House"
	PropertyTypeVilla     = "Villa"
	PropertyTypePenthouse = "Penthouse"
)

// LocalityUnknown marks a card whose location could not be resolved.
// Records carrying it are discarded before cleaning.
const LocalityUnknown = "UNKNOWN"

// RawListing is one scraped card exactly as extracted from the page.
// Numeric fields stay as free text; parsing happens during cleaning.
type RawListing struct {
	LocalityText     string    `json:"locality"`
	PropertyTypeText string    `json:"property_type"`
	PriceText        string    `json:"total_price"`
	AreaText         string    `json:"area_sqft"`
	PricePerSqftText string    `json:"price_per_sqft"`
	ScrapeDate       time.Time `json:"scrape_date"`
	ListingURL       string    `json:"listing_url"`
}

// CleanedListing is a normalized, deduplicated, range-filtered record.
// AreaSqft is NaN when the card carried no parseable area.
type CleanedListing struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Locality     string    `json:"locality" db:"locality"`
	PropertyType string    `json:"property_type" db:"property_type"`
	TotalPrice   float64   `json:"total_price" db:"total_price"`
	AreaSqft     float64   `json:"area_sqft" db:"area_sqft"`
	PricePerSqft float64   `json:"price_per_sqft" db:"price_per_sqft"`
	ScrapeDate   time.Time `json:"scrape_date" db:"scrape_date"`
	ListingURL   string    `json:"listing_url" db:"listing_url"`
}
