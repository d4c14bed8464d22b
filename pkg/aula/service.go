// Package aula implements the two Aula API calls the engagement run makes:
// fetching one window of a space feed and posting a reaction.
package aula

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Sternrassler/aula-engage/pkg/client"
)

// Service is an authenticated view of one space.
type Service struct {
	client    *client.Client
	endpoints Endpoints
	spaceID   string
	token     string
}

// NewService creates a service for spaceID using token.
func NewService(c *client.Client, endpoints Endpoints, spaceID, token string) *Service {
	return &Service{
		client:    c,
		endpoints: endpoints,
		spaceID:   spaceID,
		token:     token,
	}
}

// FetchFeed returns the posts created before until.
func (s *Service) FetchFeed(ctx context.Context, until time.Time) ([]Post, error) {
	query := url.Values{}
	query.Set("space", s.spaceID)
	query.Set("until", FormatCursor(until))

	var resp FeedResponse
	if err := s.client.GetJSON(ctx, s.endpoints.Feed(), query, s.authHeader(), &resp); err != nil {
		return nil, fmt.Errorf("fetch feed until %s: %w", FormatCursor(until), err)
	}

	return resp.Posts, nil
}

// React adds emojiName as a reaction to the post postID.
func (s *Service) React(ctx context.Context, postID, emojiName string) error {
	if err := s.client.PostJSON(ctx, s.endpoints.Reactions(), s.authHeader(), NewReaction(postID, emojiName)); err != nil {
		return fmt.Errorf("react to %s with %s: %w", postID, emojiName, err)
	}
	return nil
}

func (s *Service) authHeader() http.Header {
	header := http.Header{}
	header.Set(SessionTokenHeader, s.token)
	return header
}
