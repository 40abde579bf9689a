package skill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"skill-backend/internal/metrics"
)

type contextKey string

const (
	tokenKey contextKey = "skill_token"
	venueKey contextKey = "skill_id_data"
)

// WithToken attaches a staff bearer token to the context. Calls without
// one fall back to the configured service token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// WithVenue attaches the venue idData identifier to the context.
func WithVenue(ctx context.Context, idData string) context.Context {
	return context.WithValue(ctx, venueKey, idData)
}

// Client talks to the Skill event-management API. Two endpoint families
// exist: a REST-style one (GET /events/getrooms) and a legacy RPC-style
// one (POST /GetRooms with companyAuthId/idData in the body). Every
// lookup tries REST first and falls back to RPC via Execute.
type Client struct {
	http          *resty.Client
	companyAuthID string
	serviceToken  string

	actMu       sync.Mutex
	activityIDs map[string]int64
}

func NewClient(baseURL, companyAuthID, serviceToken string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:          httpClient,
		companyAuthID: companyAuthID,
		serviceToken:  serviceToken,
		activityIDs:   make(map[string]int64),
	}
}

func (c *Client) token(ctx context.Context) string {
	if tok, ok := ctx.Value(tokenKey).(string); ok && tok != "" {
		return tok
	}
	return c.serviceToken
}

func (c *Client) idData(ctx context.Context) string {
	idData, _ := ctx.Value(venueKey).(string)
	return idData
}

func (c *Client) parse(resp *resty.Response, err error) (any, error) {
	if err != nil {
		return nil, fmt.Errorf("skill: request failed: %w", err)
	}
	if resp.StatusCode() == 401 {
		return nil, ErrUnauthorized
	}
	if resp.IsError() {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       string(resp.Body()),
		}
	}
	var payload any
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return nil, fmt.Errorf("skill: invalid JSON response: %w", err)
		}
	}
	return payload, nil
}

// restGet issues a call against the REST-style family. companyAuthId
// and idData travel as headers on this family.
func (c *Client) restGet(ctx context.Context, op, path string, query map[string]string) (any, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token(ctx)).
		SetHeader("companyAuthId", c.companyAuthID).
		SetHeader("idData", c.idData(ctx))
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	payload, err := c.parse(req.Get(path))
	metrics.UpstreamRequestsTotal.WithLabelValues(op, "rest", outcome(err)).Inc()
	return payload, err
}

// rpcPost issues a call against the legacy RPC-style family, which
// expects companyAuthId/idData inside the JSON body.
func (c *Client) rpcPost(ctx context.Context, op, verb string, body map[string]any) (any, error) {
	merged := map[string]any{
		"companyAuthId": c.companyAuthID,
		"idData":        c.idData(ctx),
	}
	for k, v := range body {
		merged[k] = v
	}
	payload, err := c.parse(c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token(ctx)).
		SetBody(merged).
		Post("/" + verb))
	metrics.UpstreamRequestsTotal.WithLabelValues(op, "rpc", outcome(err)).Inc()
	return payload, err
}

// Ping reports whether the upstream API answers at all. Any HTTP
// response counts as reachable, only transport failures do not.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("skill: unreachable: %w", err)
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// lookup runs the REST-first/RPC-fallback chain and normalizes the
// response shape into an entity list.
func (c *Client) lookup(ctx context.Context, op, restPath string, query map[string]string, rpcVerb string, rpcBody map[string]any, key string) ([]map[string]any, error) {
	payload, err := Execute(
		func() (any, error) { return c.restGet(ctx, op, restPath, query) },
		func() (any, error) { return c.rpcPost(ctx, op, rpcVerb, rpcBody) },
	)
	if err != nil {
		return nil, err
	}
	return Entities(payload, key), nil
}

func rangeQuery(from, to string) (map[string]string, map[string]any) {
	return map[string]string{"dateFrom": from, "dateTo": to},
		map[string]any{"dateFrom": from, "dateTo": to}
}

// Rooms returns the venue's room catalog as loose documents.
func (c *Client) Rooms(ctx context.Context) ([]map[string]any, error) {
	return c.lookup(ctx, "rooms", "/events/getrooms", nil, "GetRooms", nil, "rooms")
}

// RoomRates returns the flat rate records loosely associated to rooms.
func (c *Client) RoomRates(ctx context.Context) ([]map[string]any, error) {
	return c.lookup(ctx, "room_rates", "/events/getroomrates", nil, "GetRoomRates", nil, "rates")
}

// Services returns the inventory/services catalog.
func (c *Client) Services(ctx context.Context) ([]map[string]any, error) {
	return c.lookup(ctx, "services", "/events/getservices", nil, "GetServices", nil, "services")
}

// Events returns events overlapping [from, to] (ISO dates).
func (c *Client) Events(ctx context.Context, from, to string) ([]map[string]any, error) {
	q, b := rangeQuery(from, to)
	return c.lookup(ctx, "events", "/events/getevents", q, "GetEvents", b, "events")
}

// Schedules returns event schedules overlapping [from, to].
func (c *Client) Schedules(ctx context.Context, from, to string) ([]map[string]any, error) {
	q, b := rangeQuery(from, to)
	return c.lookup(ctx, "schedules", "/events/getschedules", q, "GetSchedules", b, "schedules")
}

// Availability queries the authoritative room-availability endpoint.
// Callers treat an empty result as "endpoint unusable" and fall through
// to occupancy inference.
func (c *Client) Availability(ctx context.Context, from, to string) ([]map[string]any, error) {
	q, b := rangeQuery(from, to)
	return c.lookup(ctx, "availability", "/events/getavailability", q, "GetAvailability", b, "rooms")
}

// Clients returns the client (account) catalog.
func (c *Client) Clients(ctx context.Context) ([]map[string]any, error) {
	return c.lookup(ctx, "clients", "/events/getclients", nil, "GetClients", nil, "clients")
}

// Contacts returns the contact catalog.
func (c *Client) Contacts(ctx context.Context) ([]map[string]any, error) {
	return c.lookup(ctx, "contacts", "/events/getcontacts", nil, "GetContacts", nil, "contacts")
}

// Coordinators returns the sales coordinator (seller) catalog.
func (c *Client) Coordinators(ctx context.Context) ([]map[string]any, error) {
	return c.lookup(ctx, "coordinators", "/events/getsellers", nil, "GetSellers", nil, "sellers")
}

// Activities returns the activity-type catalog.
func (c *Client) Activities(ctx context.Context) ([]map[string]any, error) {
	return c.lookup(ctx, "activities", "/events/getactivities", nil, "GetActivities", nil, "activities")
}

// ActivityTypeID resolves an activity type's numeric id by name, cached
// for the process lifetime (the catalog is effectively static).
func (c *Client) ActivityTypeID(ctx context.Context, name string) (int64, error) {
	folded := FoldKey(name)

	c.actMu.Lock()
	if id, ok := c.activityIDs[folded]; ok {
		c.actMu.Unlock()
		return id, nil
	}
	c.actMu.Unlock()

	activities, err := c.Activities(ctx)
	if err != nil {
		return 0, err
	}
	for _, act := range activities {
		candidate := firstString(act, "name", "activityName", "description")
		if FoldKey(candidate) != folded {
			continue
		}
		if id, ok := firstNumber(act, "idActivity", "activityId", "id"); ok {
			c.actMu.Lock()
			c.activityIDs[folded] = int64(id)
			c.actMu.Unlock()
			return int64(id), nil
		}
	}
	return 0, fmt.Errorf("skill: activity type %q not found", name)
}

// Login authenticates a staff user upstream and returns the bearer
// token, tolerating the same envelope drift as entity lookups.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload, err := Execute(
		func() (any, error) {
			return c.restGet(ctx, "login", "/auth/login", map[string]string{"user": username, "password": password})
		},
		func() (any, error) {
			return c.rpcPost(ctx, "login", "Login", map[string]any{"user": username, "password": password})
		},
	)
	if err != nil {
		return "", err
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", errors.New("skill: unexpected login response shape")
	}
	if tok := firstString(obj, "token", "accessToken", "authToken"); tok != "" {
		return tok, nil
	}
	if result, ok := obj["result"].(map[string]any); ok {
		if tok := firstString(result, "token", "accessToken", "authToken"); tok != "" {
			return tok, nil
		}
	}
	return "", errors.New("skill: login response carried no token")
}

// CreateEvent registers a new event upstream and returns the created
// document (commonly carrying idEvent/eventNumber).
func (c *Client) CreateEvent(ctx context.Context, event map[string]any) (map[string]any, error) {
	return c.create(ctx, "create_event", "/events/create", "CreateEvent", event)
}

// CreateClient registers a new client account upstream.
func (c *Client) CreateClient(ctx context.Context, client map[string]any) (map[string]any, error) {
	return c.create(ctx, "create_client", "/clients/create", "CreateClient", client)
}

func (c *Client) create(ctx context.Context, op, restPath, rpcVerb string, body map[string]any) (map[string]any, error) {
	payload, err := Execute(
		func() (any, error) {
			resp, err := c.http.R().
				SetContext(ctx).
				SetHeader("Authorization", "Bearer "+c.token(ctx)).
				SetHeader("companyAuthId", c.companyAuthID).
				SetHeader("idData", c.idData(ctx)).
				SetBody(body).
				Post(restPath)
			payload, err := c.parse(resp, err)
			metrics.UpstreamRequestsTotal.WithLabelValues(op, "rest", outcome(err)).Inc()
			return payload, err
		},
		func() (any, error) { return c.rpcPost(ctx, op, rpcVerb, body) },
	)
	if err != nil {
		return nil, err
	}
	switch v := payload.(type) {
	case map[string]any:
		if result, ok := v["result"].(map[string]any); ok {
			return result, nil
		}
		return v, nil
	default:
		return map[string]any{}, nil
	}
}

// EventQuote fetches the current quote amount for an event number. A
// missing or non-numeric amount is reported as absent, not zero.
func (c *Client) EventQuote(ctx context.Context, eventNumber string) (float64, bool, error) {
	payload, err := Execute(
		func() (any, error) {
			return c.restGet(ctx, "event_quote", "/events/getquote", map[string]string{"eventNumber": eventNumber})
		},
		func() (any, error) {
			return c.rpcPost(ctx, "event_quote", "GetEventQuote", map[string]any{"eventNumber": eventNumber})
		},
	)
	if err != nil {
		return 0, false, err
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return 0, false, nil
	}
	if result, isWrapped := obj["result"].(map[string]any); isWrapped {
		obj = result
	}
	if amount, ok := firstNumber(obj, "quoteAmount", "totalAmount", "amount", "total"); ok {
		return amount, true, nil
	}
	return 0, false, nil
}

func firstString(doc map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := doc[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(doc map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if n, ok := Number(doc[k]); ok {
			return n, true
		}
	}
	return 0, false
}
