package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type UsersService struct {
	client  *resty.Client
	baseURL string
	cache   *cache.Cache
}

type usernameLookupResponse struct {
	Data []struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

func NewUsersService(baseURL string, timeout, cacheTTL time.Duration) *UsersService {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Gamepass-Proxy/1.0")

	return &UsersService{
		client:  client,
		baseURL: baseURL,
		cache:   cache.New(cacheTTL, cacheTTL),
	}
}

// ResolveUsername converts a username to its numeric user ID, returned as a
// string to avoid precision loss on large IDs. Every failure mode of the
// lookup (transport error, non-success status, malformed or empty payload)
// is logged and reported as ErrUserNotFound.
func (u *UsersService) ResolveUsername(ctx context.Context, username string) (string, error) {
	if id, found := u.cache.Get(username); found {
		return id.(string), nil
	}

	url := fmt.Sprintf("%s/v1/usernames/users", u.baseURL)

	resp, err := u.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"usernames": []string{username}}).
		Post(url)
	if err != nil {
		logrus.WithField("username", username).WithError(err).Warn("Username lookup failed")
		return "", ErrUserNotFound
	}
	if !resp.IsSuccess() {
		logrus.WithFields(logrus.Fields{
			"username": username,
			"status":   resp.StatusCode(),
		}).Warn("Username lookup returned non-success status")
		return "", ErrUserNotFound
	}

	var lookup usernameLookupResponse
	if err := json.Unmarshal(resp.Body(), &lookup); err != nil {
		logrus.WithField("username", username).WithError(err).Warn("Username lookup returned malformed payload")
		return "", ErrUserNotFound
	}
	if len(lookup.Data) == 0 || lookup.Data[0].ID.String() == "" {
		return "", ErrUserNotFound
	}

	id := lookup.Data[0].ID.String()
	u.cache.Set(username, id, cache.DefaultExpiration)
	return id, nil
}
