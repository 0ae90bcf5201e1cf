package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address is immutable once an order that references it has been placed.
type Address struct {
	ID           uuid.UUID
	OwnerID      string
	Type         AddressType
	AddressLine1 string
	AddressLine2 string
	ZipCode      string
	City         string

	CreatedAt time.Time
}

func (a Address) Validate() error {
	if strings.TrimSpace(a.AddressLine1) == "" {
		return errors.New("address line 1 is empty")
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		return errors.New("zip code is empty")
	}
	if strings.TrimSpace(a.City) == "" {
		return errors.New("city is empty")
	}
	return nil
}
