package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"notification-service/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser_Success(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("x-service-token")
		assert.Equal(t, "/api/users/internal/u1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","name":"Ann","email":"a@b.com"}`))
	}))
	defer server.Close()

	client := NewPeerClient(server.URL, server.URL, "service-secret")

	user, err := client.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "Ann", user.Name)

	// The minted token is a valid short-lived service token
	claims, err := jwt.NewService("service-secret").ValidateServiceToken(gotToken)
	require.NoError(t, err)
	assert.Equal(t, "notification-service", claims.Service)
	assert.Equal(t, "service", claims.Type)
}

func TestGetOrder_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/internal/o1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"o1","status":"pending","totalPrice":100}`))
	}))
	defer server.Close()

	client := NewPeerClient(server.URL, server.URL, "service-secret")

	order, err := client.GetOrder(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 100.0, order.TotalPrice)
}

func TestGetUser_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewPeerClient(server.URL, server.URL, "service-secret")

	_, err := client.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPeerNotFound)
}

func TestGetUser_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewPeerClient(server.URL, server.URL, "service-secret")

	_, err := client.GetUser(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrPeerUnavailable)
}

func TestGetUser_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewPeerClient(server.URL, server.URL, "service-secret")

	_, err := client.GetUser(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrPeerUnavailable)
}
