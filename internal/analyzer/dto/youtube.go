package dto

// YouTubeSearchResponse is the response of the YouTube /search endpoint.
type YouTubeSearchResponse struct {
	Items []YouTubeSearchItem `json:"items"`
	Error *YouTubeError       `json:"error,omitempty"`
}

// YouTubeSearchItem is a search hit. Snippet is nil when the API omits it.
type YouTubeSearchItem struct {
	ID      YouTubeItemID   `json:"id"`
	Snippet *YouTubeSnippet `json:"snippet"`
}

// YouTubeItemID identifies the resource of a search hit.
type YouTubeItemID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

// YouTubeSnippet holds the descriptive fields of a video.
type YouTubeSnippet struct {
	Title        string                      `json:"title"`
	Description  string                      `json:"description"`
	ChannelID    string                      `json:"channelId"`
	ChannelTitle string                      `json:"channelTitle"`
	PublishedAt  string                      `json:"publishedAt"`
	Thumbnails   map[string]YouTubeThumbnail `json:"thumbnails"`
}

// YouTubeThumbnail is one thumbnail size.
type YouTubeThumbnail struct {
	URL string `json:"url"`
}

// YouTubeVideosResponse is the response of the YouTube /videos endpoint.
type YouTubeVideosResponse struct {
	Items []YouTubeVideo `json:"items"`
	Error *YouTubeError  `json:"error,omitempty"`
}

// YouTubeVideo carries the statistics part of a video.
type YouTubeVideo struct {
	ID         string            `json:"id"`
	Statistics YouTubeStatistics `json:"statistics"`
}

// YouTubeStatistics are reported as decimal strings; absent counts are hidden.
type YouTubeStatistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

// YouTubeError is the error envelope of the Data API.
type YouTubeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
