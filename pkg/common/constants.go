package common

// Categories as stored in sentiment_results.category.
const (
	CategoryOnlineNews   = "online news"
	CategoryOnlineVideos = "online videos"
)

// Category keys accepted by the search endpoint.
const (
	CategoryKeyOnlineNews   = "online_news"
	CategoryKeyOnlineVideos = "online_videos"
)

// Sentiment labels. Unknown and Error are valid results, not failures.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentUnknown  = "unknown"
	SentimentError    = "error"
)

// Feedback types.
const (
	FeedbackThumbsUp   = "thumbs_up"
	FeedbackThumbsDown = "thumbs_down"
)

const (
	DefaultModel    = "gemma3:1b"
	VideoSourceName = "youtube"
	UnknownSource   = "Unknown"
	NotAvailable    = "N/A"
	UserIDHeader    = "X-User-ID"
)
