package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"notification-service/internal/entity"
	"notification-service/pkg/jwt"
)

const serviceName = "notification-service"

var (
	// ErrPeerNotFound means the peer answered but has no such resource.
	ErrPeerNotFound = errors.New("peer resource not found")
	// ErrPeerUnavailable covers transport failures and non-2xx answers.
	ErrPeerUnavailable = errors.New("peer service unavailable")
)

// PeerClient fetches user and order snapshots from the peer services.
type PeerClient interface {
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
}

type peerClient struct {
	httpClient      *http.Client
	tokenService    *jwt.Service
	userServiceURL  string
	orderServiceURL string
}

func NewPeerClient(userServiceURL, orderServiceURL, serviceSecret string) PeerClient {
	return &peerClient{
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		tokenService:    jwt.NewService(serviceSecret),
		userServiceURL:  userServiceURL,
		orderServiceURL: orderServiceURL,
	}
}

func (c *peerClient) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	url := fmt.Sprintf("%s/api/users/internal/%s", c.userServiceURL, userID)

	var user entity.User
	if err := c.get(ctx, url, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *peerClient) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	url := fmt.Sprintf("%s/api/orders/internal/%s", c.orderServiceURL, orderID)

	var order entity.Order
	if err := c.get(ctx, url, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *peerClient) get(ctx context.Context, url string, out interface{}) error {
	token, err := c.tokenService.GenerateServiceToken(serviceName)
	if err != nil {
		return fmt.Errorf("failed to generate service token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("x-service-token", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPeerUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrPeerNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: unexpected status %d from %s", ErrPeerUnavailable, resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", ErrPeerUnavailable, err)
	}
	return nil
}
