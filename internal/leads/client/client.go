// Package client provides the HTTP client for the lead backend (LeadService).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"leadportal/internal/leads/domain"
	"leadportal/internal/leads/transport"
	"leadportal/platform/apperr"
	"leadportal/platform/config"
	"leadportal/platform/logger"
)

const (
	pathCreateLead   = "/lead/createLead"
	pathShowLeads    = "/lead/showLeads"
	pathUpdateLead   = "/lead/%s/updateLead"
	pathDeleteLead   = "/lead/%s/deleteLead"
	maxErrorBodySize = 4 << 10

	msgUnreachable     = "lead service unreachable"
	msgInvalidResponse = "invalid response from lead service"
	msgNotApplied      = "lead service did not apply the change"
)

// Client is the HTTP client for the lead backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// New creates a lead backend client from configuration.
func New(cfg config.BackendConfig, log *logger.Logger) *Client {
	return NewWithHTTPClient(cfg.GetBackendURL(), &http.Client{Timeout: cfg.GetBackendTimeout()}, log)
}

// NewWithHTTPClient creates a client around an existing *http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// CreateLead submits a new lead. The decoded response is returned whenever the
// backend answered with a readable body, including when it reported success != 1,
// so callers can show the backend's message.
func (c *Client) CreateLead(ctx context.Context, req transport.CreateLeadRequest) (*transport.CreateLeadResponse, error) {
	const op = "create lead"

	var resp transport.CreateLeadResponse
	if err := c.do(ctx, op, http.MethodPost, pathCreateLead, nil, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Applied() {
		return &resp, rejected(op, resp.Message)
	}
	return &resp, nil
}

// ListLeads fetches one page of leads.
func (c *Client) ListLeads(ctx context.Context, page, limit int) (domain.LeadPage, error) {
	const op = "list leads"

	if page < 1 || limit < 1 {
		return domain.LeadPage{}, apperr.BadRequest("page and limit must be at least 1").WithOp(op)
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var resp transport.ListLeadsResponse
	if err := c.do(ctx, op, http.MethodGet, pathShowLeads, params, nil, &resp); err != nil {
		return domain.LeadPage{}, err
	}
	if resp.Leads == nil {
		c.log.WithContext(ctx).Error("lead service list response without leads", "op", op)
		return domain.LeadPage{}, apperr.Upstream(msgInvalidResponse).WithOp(op)
	}

	leads := make([]domain.Lead, 0, len(*resp.Leads))
	for _, l := range *resp.Leads {
		leads = append(leads, l.ToDomain())
	}

	return domain.LeadPage{Leads: leads, TotalPages: resp.TotalPages.Int()}, nil
}

// Ping checks that the backend answers a one-item list request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListLeads(ctx, 1, 1)
	return err
}

// UpdateLeadStatus sets the status of a lead.
func (c *Client) UpdateLeadStatus(ctx context.Context, id string, status domain.Status) error {
	const op = "update lead status"

	path, err := leadPath(pathUpdateLead, id)
	if err != nil {
		return err.WithOp(op)
	}

	var ack transport.Ack
	if err := c.do(ctx, op, http.MethodPut, path, nil, transport.UpdateLeadStatusRequest{Status: status}, &ack); err != nil {
		return err
	}
	if !ack.Applied() {
		return rejected(op, ack.Message)
	}
	return nil
}

// DeleteLead removes a lead.
func (c *Client) DeleteLead(ctx context.Context, id string) error {
	const op = "delete lead"

	path, err := leadPath(pathDeleteLead, id)
	if err != nil {
		return err.WithOp(op)
	}

	var ack transport.Ack
	if err := c.do(ctx, op, http.MethodDelete, path, nil, nil, &ack); err != nil {
		return err
	}
	if !ack.Applied() {
		return rejected(op, ack.Message)
	}
	return nil
}

func leadPath(format, id string) (string, *apperr.Error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperr.BadRequest("lead id is required")
	}
	return fmt.Sprintf(format, url.PathEscape(id)), nil
}

func rejected(op, message string) error {
	if strings.TrimSpace(message) == "" {
		message = msgNotApplied
	}
	return apperr.Rejected(message).WithOp(op)
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out interface{}) error {
	log := c.log.WithContext(ctx)

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode request", err).WithOp(op)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "create request", err).WithOp(op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.ServiceError(op, err)
		return apperr.Unavailable(msgUnreachable, err).WithOp(op)
	}
	defer resp.Body.Close()

	log.ServiceCall(method, path, resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.upstreamError(ctx, op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		log.ServiceError(op, err)
		return apperr.Wrap(apperr.KindUpstream, msgInvalidResponse, err).WithOp(op)
	}

	return nil
}

// upstreamError builds the error for a non-2xx answer, keeping the backend's
// message when the body is an Ack envelope.
func (c *Client) upstreamError(ctx context.Context, op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	message := fmt.Sprintf("lead service returned status %d", resp.StatusCode)
	var ack transport.Ack
	if json.Unmarshal(raw, &ack) == nil && strings.TrimSpace(ack.Message) != "" {
		message = ack.Message
	}

	c.log.WithContext(ctx).Error("lead service upstream error", "op", op, "status", resp.StatusCode)

	return apperr.Upstream(message).WithOp(op).WithDetails(map[string]int{"status": resp.StatusCode})
}
