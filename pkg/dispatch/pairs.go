package dispatch

import (
	"fmt"
	"iter"
)

// Position locates a pair in the cross product. Indices are 1-based.
type Position struct {
	Post       int
	Posts      int
	Emoji      int
	EmojiCount int
}

// Ordinal returns the 1-based index of the pair in dispatch order.
func (p Position) Ordinal() int {
	return (p.Post-1)*p.EmojiCount + p.Emoji
}

// String renders the progress status for the pair.
func (p Position) String() string {
	return fmt.Sprintf("Reacting to post %d/%d with emoji %d/%d...", p.Post, p.Posts, p.Emoji, p.EmojiCount)
}

// Pair is one post and one emoji to react with.
type Pair struct {
	PostID    string
	EmojiName string
}

// Pairs yields the cross product of posts and emoji, post-major: every emoji
// for the first post before any for the second.
func Pairs(posts, emoji []string) iter.Seq2[Position, Pair] {
	return func(yield func(Position, Pair) bool) {
		for i, postID := range posts {
			for j, name := range emoji {
				pos := Position{
					Post:       i + 1,
					Posts:      len(posts),
					Emoji:      j + 1,
					EmojiCount: len(emoji),
				}
				if !yield(pos, Pair{PostID: postID, EmojiName: name}) {
					return
				}
			}
		}
	}
}
