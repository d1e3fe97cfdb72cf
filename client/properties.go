package client

import (
	"context"
	"net/url"
	"strconv"
)

// PropertyService handles property registry operations.
type PropertyService struct {
	c *Client
}

// propertyListResponse wraps the paginated property list response.
type propertyListResponse struct {
	Properties []Property `json:"properties"`
	HasMore    bool       `json:"has_more"`
}

// List returns properties with pagination.
func (s *PropertyService) List(ctx context.Context, opts *PropertyListOptions) ([]Property, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp propertyListResponse
	if err := s.c.get(ctx, "/api/v1/properties", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Properties, resp.HasMore, nil
}

// Get returns a single property with its lease record, if one exists.
func (s *PropertyService) Get(ctx context.Context, id int64) (*PropertyDetail, error) {
	var detail PropertyDetail
	if err := s.c.get(ctx, "/api/v1/properties/"+strconv.FormatInt(id, 10), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Mint registers a new property. Owner-only.
func (s *PropertyService) Mint(ctx context.Context, req *MintPropertyRequest) (*Property, error) {
	var prop Property
	if err := s.c.post(ctx, "/api/v1/properties", req, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// UpdateCondition reports a new wear score for a property. Landlord or
// owner only.
func (s *PropertyService) UpdateCondition(ctx context.Context, id int64, condition int) (*Property, error) {
	body := map[string]int{"condition": condition}
	var prop Property
	if err := s.c.put(ctx, "/api/v1/properties/"+strconv.FormatInt(id, 10)+"/condition", body, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// Quote returns the monthly rent and required deposit for a prospective
// application without changing any state.
func (s *PropertyService) Quote(ctx context.Context, id int64, opts QuoteOptions) (*Quote, error) {
	params := url.Values{}
	params.Set("duration_months", strconv.Itoa(opts.DurationMonths))
	if opts.UserScore > 0 {
		params.Set("user_score", strconv.Itoa(opts.UserScore))
	}
	if opts.CurrentUsage > 0 {
		params.Set("current_usage", strconv.FormatInt(opts.CurrentUsage, 10))
	}
	if opts.UsageCap > 0 {
		params.Set("usage_cap", strconv.FormatInt(opts.UsageCap, 10))
	}
	var quote Quote
	if err := s.c.get(ctx, "/api/v1/properties/"+strconv.FormatInt(id, 10)+"/quote", params, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}
