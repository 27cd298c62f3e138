package client

import (
	"context"
	"net/http"

	"dedupgate/types"
)

// CheckOverrides are optional per-call matching parameters. Zero values let
// the server defaults apply.
type CheckOverrides struct {
	TopK              int     `json:"top_k,omitempty"`
	Method            string  `json:"method,omitempty"`
	FieldThreshold    float64 `json:"field_threshold,omitempty"`
	DecisionThreshold float64 `json:"decision_threshold,omitempty"`
}

// RegisterResult is the outcome of a register call.
type RegisterResult struct {
	Status   string                `json:"status"`
	Check    *types.CheckResult    `json:"check,omitempty"`
	Customer *types.CustomerRecord `json:"customer,omitempty"`
}

// CheckRegistration runs a duplicate check without registering.
func (c *Client) CheckRegistration(ctx context.Context, input *types.RegistrationInput, overrides CheckOverrides) (*types.CheckResult, error) {
	payload := map[string]interface{}{
		"registration": input,
	}
	addOverrides(payload, overrides)

	var result types.CheckResult
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/registration/check", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register checks a registration and admits it when no duplicate is found.
func (c *Client) Register(ctx context.Context, input *types.RegistrationInput, overrides CheckOverrides) (*RegisterResult, error) {
	payload := map[string]interface{}{
		"registration": input,
	}
	addOverrides(payload, overrides)

	var result RegisterResult
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/registration/register", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddCustomer indexes a customer record directly, bypassing the duplicate check.
func (c *Client) AddCustomer(ctx context.Context, rec *types.CustomerRecord) error {
	payload := map[string]interface{}{
		"customer": rec,
	}
	return c.doJSONRequest(ctx, http.MethodPost, "/api/corpus/add", payload, nil)
}

// Count returns the number of records in the corpus.
func (c *Client) Count(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/corpus/count", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// Clear removes every record from the corpus.
func (c *Client) Clear(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodDelete, "/api/corpus/clear", nil, nil)
}

// Health pings the API.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodGet, "/api/health", nil, nil)
}

func addOverrides(payload map[string]interface{}, overrides CheckOverrides) {
	if overrides.TopK > 0 {
		payload["top_k"] = overrides.TopK
	}
	if overrides.Method != "" {
		payload["method"] = overrides.Method
	}
	if overrides.FieldThreshold > 0 {
		payload["field_threshold"] = overrides.FieldThreshold
	}
	if overrides.DecisionThreshold > 0 {
		payload["decision_threshold"] = overrides.DecisionThreshold
	}
}
