package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Product struct {
	ID                  uuid.UUID
	Slug                string
	Title               string
	Description         string
	Price               Money
	Colours             []string
	Sizes               []string
	PrimaryCategory     string
	SecondaryCategories []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) HasVariant(colour, size string) bool {
	return lo.Contains(p.Colours, colour) && lo.Contains(p.Sizes, size)
}
