package service

// Paging limits
const (
	DefaultFeedTake    = 5
	DefaultCommentTake = 20
	MaxTake            = 100
)

// Page selects a window of an ordered result
type Page struct {
	Take int
	Skip int
}

// FeedPage normalizes feed paging: a non-positive take falls back to the default
func FeedPage(take, skip int) Page {
	if take <= 0 {
		take = DefaultFeedTake
	}
	if take > MaxTake {
		take = MaxTake
	}
	if skip < 0 {
		skip = 0
	}
	return Page{Take: take, Skip: skip}
}

// CommentPage normalizes comment paging: take is clamped to [1, MaxTake]
func CommentPage(take, skip int) Page {
	if take < 1 {
		take = 1
	}
	if take > MaxTake {
		take = MaxTake
	}
	if skip < 0 {
		skip = 0
	}
	return Page{Take: take, Skip: skip}
}
