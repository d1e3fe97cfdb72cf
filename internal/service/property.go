package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/metrics"
	"github.com/rentora/rentora/internal/models"
	"github.com/rentora/rentora/internal/pricing"
	"github.com/rentora/rentora/internal/registry"
)

// Compile-time check: *PropertyService must satisfy domain.PropertyService.
var _ domain.PropertyService = (*PropertyService)(nil)

// PropertyStoreWithDelete extends the property store with the compensation
// delete used when asset minting fails after the record was created, and the
// wear-score update landlords report over time.
type PropertyStoreWithDelete interface {
	domain.PropertyStore
	DeleteProperty(ctx context.Context, id int64) error
	UpdateCondition(ctx context.Context, id int64, condition int) (*models.Property, error)
}

// PropertyService manages the property registry side: minting, listing and
// price quotes.
type PropertyService struct {
	props  PropertyStoreWithDelete
	leases domain.LeaseStore
	assets registry.AssetRegistry
	owner  uuid.UUID
	events EventSink
	audit  AuditEnqueuer
	log    *logrus.Logger
}

// NewPropertyService creates a PropertyService. owner is the platform
// operator identity allowed to mint.
func NewPropertyService(
	props PropertyStoreWithDelete,
	leases domain.LeaseStore,
	assets registry.AssetRegistry,
	owner uuid.UUID,
	events EventSink,
	audit AuditEnqueuer,
	log *logrus.Logger,
) *PropertyService {
	return &PropertyService{
		props:  props,
		leases: leases,
		assets: assets,
		owner:  owner,
		events: events,
		audit:  audit,
		log:    log,
	}
}

// MintProperty registers a new property record and mints the matching
// asset for the landlord. Owner-only.
func (s *PropertyService) MintProperty(
	ctx context.Context, caller uuid.UUID, req models.MintPropertyRequest,
) (*models.Property, error) {
	if caller != s.owner {
		return nil, models.Authorizationf("only the platform owner may mint properties")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	prop, err := s.props.CreateProperty(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.assets.Mint(ctx, req.Landlord, prop.ID); err != nil {
		// The record is useless without its asset: undo the create so a
		// failed mint leaves no trace.
		if derr := s.props.DeleteProperty(ctx, prop.ID); derr != nil {
			s.log.WithError(derr).WithField("property_id", prop.ID).
				Error("failed to remove property after asset mint failure")
		}

		return nil, fmt.Errorf("minting asset: %w", err)
	}

	metrics.PropertiesTotal.Inc()

	s.log.WithFields(logrus.Fields{
		"action": "property.mint", "property_id": prop.ID, "landlord": req.Landlord.String(),
	}).Info("audit")
	auditAsync(s.audit, prop.ID, "property.mint", caller, map[string]any{
		"landlord": req.Landlord.String(), "base_value": req.BaseValue,
	})
	emit(s.events, models.PropertyMinted{
		ID:        prop.ID,
		Location:  prop.Location,
		Size:      prop.Size,
		Rooms:     prop.Rooms,
		YearBuilt: prop.YearBuilt,
		BaseValue: prop.BaseValue,
		Condition: prop.Condition,
	})

	return prop, nil
}

// GetProperty returns a property and its lease, if one exists.
func (s *PropertyService) GetProperty(
	ctx context.Context, id int64,
) (*models.Property, *models.Lease, error) {
	prop, err := s.props.GetProperty(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	lease, err := s.leases.GetLease(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrLeaseNotFound) {
			return prop, nil, nil
		}

		return nil, nil, err
	}

	return prop, lease, nil
}

// ListProperties returns a paginated property listing (pass-through).
func (s *PropertyService) ListProperties(
	ctx context.Context, limit, offset int,
) ([]models.Property, bool, error) {
	return s.props.ListProperties(ctx, limit, offset)
}

// UpdateCondition records a new wear score for a property. Only the
// landlord holding the asset or the platform owner may report it. The score
// feeds the next quote and any extension repricing; the active rent is
// untouched.
func (s *PropertyService) UpdateCondition(
	ctx context.Context, caller uuid.UUID, id int64, condition int,
) (*models.Property, error) {
	if condition < 0 || condition > models.MaxCondition {
		return nil, models.Validationf("condition must be between 0 and %d", models.MaxCondition)
	}

	prop, err := s.props.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if caller != s.owner && caller != prop.Landlord {
		return nil, models.Authorizationf("only the landlord or platform owner may update condition")
	}

	updated, err := s.props.UpdateCondition(ctx, id, condition)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, id, "property.condition", caller, map[string]any{
		"condition": condition,
	})

	return updated, nil
}

// Quote computes the monthly rent and required deposit a prospective tenant
// would pay, without any state change.
func (s *PropertyService) Quote(
	ctx context.Context, id int64, durationMonths, userScore int, currentUsage, usageCap int64,
) (*models.Quote, error) {
	prop, err := s.props.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	monthly, err := pricing.Monthly(prop.BaseValue, prop.Condition, currentUsage, usageCap, userScore, durationMonths)
	if err != nil {
		return nil, err
	}

	return &models.Quote{
		PropertyID:      id,
		MonthlyRent:     monthly,
		RequiredDeposit: monthly * models.DepositMultiplier,
	}, nil
}
