package emoji

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Sternrassler/aula-engage/internal/testutil"
	"github.com/Sternrassler/aula-engage/pkg/client"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *client.Client {
	logger := zerolog.Nop()
	return client.New(client.Config{Logger: &logger})
}

func TestLoad(t *testing.T) {
	mock := testutil.NewMockAula()
	defer mock.Close()

	mock.SetEmoji("smile", "thumbsup", "tada")

	entries, err := NewLoader(newTestClient(), mock.EmojiURL()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"smile", "thumbsup", "tada"}, Names(entries))
	assert.Equal(t, []string{""}, mock.EmojiTokens(), "dataset is fetched without a session token")
}

func TestLoad_Empty(t *testing.T) {
	mock := testutil.NewMockAula()
	defer mock.Close()

	entries, err := NewLoader(newTestClient(), mock.EmojiURL()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		class  client.ErrorClass
	}{
		{name: "not found", status: http.StatusNotFound, body: "gone", class: client.ErrorClassClient},
		{name: "not an array", status: http.StatusOK, body: `{"short_name": "smile"}`, class: client.ErrorClassDecode},
		{name: "entry without short name", status: http.StatusOK, body: `[{"name": "SMILE"}]`, class: client.ErrorClassDecode},
		{name: "null short name", status: http.StatusOK, body: `[{"short_name": null}]`, class: client.ErrorClassDecode},
		{name: "null body", status: http.StatusOK, body: `null`, class: client.ErrorClassDecode},
		{name: "trailing garbage", status: http.StatusOK, body: `[] trailing`, class: client.ErrorClassDecode},
		{name: "second value", status: http.StatusOK, body: `[{"short_name": "a"}] {"x": 1}`, class: client.ErrorClassDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockAula()
			defer mock.Close()

			mock.SetHandler(testutil.EmojiPath, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			entries, err := NewLoader(newTestClient(), mock.EmojiURL()).Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, entries)
			assert.Equal(t, tt.class, client.ClassOf(err))
		})
	}
}

func TestEmoji_IgnoresCargoFields(t *testing.T) {
	var entries []Emoji
	body := `[{"name": "GRINNING FACE", "unified": "1F600", "short_name": "grinning", "skin_variations": {"1F3FB": {}}}]`

	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	assert.Equal(t, []Emoji{{ShortName: "grinning"}}, entries)
}

func TestEmoji_EmptyShortName(t *testing.T) {
	var entries []Emoji
	require.NoError(t, json.Unmarshal([]byte(`[{"short_name": ""}]`), &entries))
	assert.Equal(t, []Emoji{{ShortName: ""}}, entries)
}

func TestNewLoader_DefaultURL(t *testing.T) {
	assert.Equal(t, DefaultDatasetURL, NewLoader(newTestClient(), "").url)
}
