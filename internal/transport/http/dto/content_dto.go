package dto

type CreatePostRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
	NSFW  bool   `json:"nsfw"`
}

type ReportPostRequest struct {
	Reason string `json:"reason"`
}

type FileAppealRequest struct {
	ContentID   int64  `json:"content_id"`
	ContentType string `json:"content_type"`
	Reason      string `json:"reason"`
}

type UpdateProfileRequest struct {
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}
