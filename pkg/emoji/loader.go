// Package emoji loads the emoji reference dataset that reactions are drawn
// from.
package emoji

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Sternrassler/aula-engage/pkg/client"
)

// DefaultDatasetURL is the emoji list the Aula web app bundles.
const DefaultDatasetURL = "https://raw.githubusercontent.com/iamcal/emoji-data/master/emoji.json"

// Emoji is one dataset entry. Only the short name is kept.
type Emoji struct {
	ShortName string `json:"short_name"`
}

// UnmarshalJSON rejects entries without a short_name key.
func (e *Emoji) UnmarshalJSON(data []byte) error {
	var raw struct {
		ShortName *string `json:"short_name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ShortName == nil {
		return errors.New("emoji: missing short_name")
	}

	e.ShortName = *raw.ShortName
	return nil
}

// dataset is the top-level array. A null body is not a dataset.
type dataset []Emoji

func (d *dataset) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("emoji dataset: null body")
	}

	var entries []Emoji
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*d = entries
	return nil
}

// Loader fetches the dataset with a single unauthenticated GET.
type Loader struct {
	client *client.Client
	url    string
}

// NewLoader creates a loader for url, or DefaultDatasetURL when url is empty.
func NewLoader(c *client.Client, url string) *Loader {
	if url == "" {
		url = DefaultDatasetURL
	}
	return &Loader{client: c, url: url}
}

// Load fetches and decodes the dataset.
func (l *Loader) Load(ctx context.Context) ([]Emoji, error) {
	var entries dataset
	if err := l.client.GetJSON(ctx, l.url, nil, nil, &entries); err != nil {
		return nil, fmt.Errorf("load emoji dataset: %w", err)
	}
	return []Emoji(entries), nil
}

// Names returns the short names in dataset order.
func Names(entries []Emoji) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.ShortName)
	}
	return names
}
