package client

import (
	"context"
	"strconv"
)

// LeaseService handles lease lifecycle operations.
type LeaseService struct {
	c *Client
}

func leasePath(propertyID int64, op string) string {
	return "/api/v1/properties/" + strconv.FormatInt(propertyID, 10) + "/lease/" + op
}

// Apply applies to lease a property, escrowing the deposit carried in
// req.Amount. The deposit must equal exactly three months of the quoted
// rent; use PropertyService.Quote to compute it.
func (s *LeaseService) Apply(ctx context.Context, propertyID int64, req *ApplyRequest) (*Lease, error) {
	var lease Lease
	if err := s.c.post(ctx, leasePath(propertyID, "apply"), req, &lease); err != nil {
		return nil, err
	}
	return &lease, nil
}

// Confirm activates a pending lease. Landlord-only.
func (s *LeaseService) Confirm(ctx context.Context, propertyID int64) (*Lease, error) {
	var lease Lease
	if err := s.c.post(ctx, leasePath(propertyID, "confirm"), nil, &lease); err != nil {
		return nil, err
	}
	return &lease, nil
}

// PayRent pays one month of rent. The amount must match the lease's
// monthly rent exactly and the payment must not be late.
func (s *LeaseService) PayRent(ctx context.Context, propertyID int64, amount int64) (*Lease, error) {
	var lease Lease
	if err := s.c.post(ctx, leasePath(propertyID, "pay"), &PayRentRequest{Amount: amount}, &lease); err != nil {
		return nil, err
	}
	return &lease, nil
}

// Extend lengthens an active lease, repricing the rent and settling the
// deposit delta carried in req.Amount.
func (s *LeaseService) Extend(ctx context.Context, propertyID int64, req *ExtendRequest) (*Lease, error) {
	var lease Lease
	if err := s.c.post(ctx, leasePath(propertyID, "extend"), req, &lease); err != nil {
		return nil, err
	}
	return &lease, nil
}

// Terminate ends an expired lease and returns the refunded deposit.
func (s *LeaseService) Terminate(ctx context.Context, propertyID int64) (int64, error) {
	var resp struct {
		Refunded int64 `json:"refunded"`
	}
	if err := s.c.post(ctx, leasePath(propertyID, "terminate"), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Refunded, nil
}

// ClaimDefault forfeits the deposit of a delinquent lease to the landlord
// and returns the claimed amount. Landlord-only.
func (s *LeaseService) ClaimDefault(ctx context.Context, propertyID int64) (int64, error) {
	var resp struct {
		Claimed int64 `json:"claimed"`
	}
	if err := s.c.post(ctx, leasePath(propertyID, "claim-default"), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Claimed, nil
}

// Switch applies to a new property in one call, provided any lease the
// caller holds on the old property is no longer active.
func (s *LeaseService) Switch(ctx context.Context, req *SwitchRequest) (*Lease, error) {
	var lease Lease
	if err := s.c.post(ctx, "/api/v1/leases/switch", req, &lease); err != nil {
		return nil, err
	}
	return &lease, nil
}
