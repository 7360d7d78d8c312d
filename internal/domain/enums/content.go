package enums

type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeComment ContentType = "comment"
	ContentTypeReview  ContentType = "review"
	ContentTypeProfile ContentType = "profile"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentTypePost, ContentTypeComment, ContentTypeReview, ContentTypeProfile:
		return true
	default:
		return false
	}
}

type ContentStatus string

const (
	ContentStatusActive  ContentStatus = "active"
	ContentStatusRemoved ContentStatus = "removed"
)
