package aula

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ReactionItemType tags every reaction as targeting a classroom post.
const ReactionItemType = "UBClassRoomPost"

// Post is one feed entry. Only the fields the engine consumes are decoded.
type Post struct {
	ObjectID  string    `json:"objectId"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON decodes a post and rejects entries missing objectId or
// createdAt.
func (p *Post) UnmarshalJSON(data []byte) error {
	var raw struct {
		ObjectID  *string    `json:"objectId"`
		CreatedAt *time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ObjectID == nil {
		return errors.New("post: missing objectId")
	}
	if raw.CreatedAt == nil {
		return fmt.Errorf("post %q: missing createdAt", *raw.ObjectID)
	}

	p.ObjectID = *raw.ObjectID
	p.CreatedAt = *raw.CreatedAt
	return nil
}

// FeedResponse is the body of GET /posts/feed.
type FeedResponse struct {
	Posts []Post `json:"posts"`
}

// UnmarshalJSON requires the posts key to be present. An empty array is the
// exhaustion signal; a missing key is a malformed response.
func (r *FeedResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Posts *[]Post `json:"posts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Posts == nil {
		return errors.New("feed response: missing posts")
	}

	r.Posts = *raw.Posts
	return nil
}

// Reaction is the body of POST /reactions.
type Reaction struct {
	Reaction ReactionTarget `json:"reaction"`
}

// ReactionTarget names the post and emoji of a single reaction.
type ReactionTarget struct {
	ItemID    string `json:"itemId"`
	ItemType  string `json:"itemType"`
	EmojiName string `json:"emojiName"`
}

// NewReaction builds the reaction body for one post and emoji.
func NewReaction(postID, emojiName string) Reaction {
	return Reaction{
		Reaction: ReactionTarget{
			ItemID:    postID,
			ItemType:  ReactionItemType,
			EmojiName: emojiName,
		},
	}
}
