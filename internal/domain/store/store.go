package store

import (
	"regexp"
	"strings"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Store is a merchant's shop. It is the tenant boundary for products,
// orders, customers and notifications.
type Store struct {
	shared.BaseAggregateRoot
	OwnerID               uuid.UUID
	Name                  string
	Slug                  string
	Description           string
	Phone                 string
	Email                 string
	Address               string
	LogoURL               string
	Currency              string
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	IsActive              bool
}

// NewStore creates an active store owned by ownerID
func NewStore(ownerID uuid.UUID, name, slug string) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Store owner is required")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	s := &Store{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		OwnerID:               ownerID,
		Name:                  strings.TrimSpace(name),
		Slug:                  slug,
		Currency:              "INR",
		DeliveryFee:           decimal.Zero,
		FreeDeliveryThreshold: decimal.Zero,
		IsActive:              true,
	}
	return s, nil
}

// UpdateProfile changes the customer-facing details
func (s *Store) UpdateProfile(name, description, phone, email, address, logoURL string) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Description = description
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.LogoURL = logoURL
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetDeliveryPricing sets the delivery fee and the subtotal above which delivery is free.
// A zero threshold means delivery is never free.
func (s *Store) SetDeliveryPricing(fee, freeThreshold decimal.Decimal) error {
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_FEE", "Delivery fee cannot be negative")
	}
	if freeThreshold.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_FEE", "Free delivery threshold cannot be negative")
	}
	s.DeliveryFee = fee
	s.FreeDeliveryThreshold = freeThreshold
	s.Touch()
	s.IncrementVersion()
	return nil
}

// DeliveryFeeFor returns the fee charged for a delivery order with the given subtotal
func (s *Store) DeliveryFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if s.FreeDeliveryThreshold.IsPositive() && subtotal.GreaterThanOrEqual(s.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return s.DeliveryFee
}

// Activate opens the store for orders
func (s *Store) Activate() {
	if s.IsActive {
		return
	}
	s.IsActive = true
	s.Touch()
	s.IncrementVersion()
}

// Deactivate closes the store; the storefront then rejects new orders
func (s *Store) Deactivate() {
	if !s.IsActive {
		return
	}
	s.IsActive = false
	s.Touch()
	s.IncrementVersion()
}

// IsOwnedBy reports whether userID owns the store
func (s *Store) IsOwnedBy(userID uuid.UUID) bool {
	return s.OwnerID == userID
}

// Slugify derives a URL slug from a store name
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 120 characters")
	}
	return nil
}

// ValidSlug reports whether slug can address a storefront
func ValidSlug(slug string) bool {
	return validateSlug(slug) == nil
}

func validateSlug(slug string) error {
	if len(slug) < 3 || len(slug) > 60 {
		return shared.NewDomainError("INVALID_SLUG", "Store slug must be between 3 and 60 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Store slug may only contain lowercase letters, digits and dashes")
	}
	return nil
}
