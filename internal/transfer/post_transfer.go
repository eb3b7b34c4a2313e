package transfer

// FacebookPostRequest is the body of POST /api/facebook/post/:accountId.
type FacebookPostRequest struct {
	Message     string   `json:"message"`
	MediaURL    string   `json:"media_url,omitempty"`
	MediaURLs   []string `json:"media_urls,omitempty"`
	ScheduledAt string   `json:"scheduled_at,omitempty"`
}

// InstagramPostRequest is the body of POST /api/instagram/post/:accountId.
type InstagramPostRequest struct {
	Caption   string   `json:"caption"`
	MediaURL  string   `json:"media_url,omitempty"`
	MediaURLs []string `json:"media_urls,omitempty"`
}

// YoutubeUploadRequest carries the non-file fields of the multipart body of
// POST /api/youtube/upload/:accountId.
type YoutubeUploadRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	MediaURL    string `json:"media_url,omitempty"`
}

type GmbPostRequest struct {
	Summary     string `json:"summary"`
	MediaURL    string `json:"media_url,omitempty"`
	CtaType     string `json:"cta_type,omitempty"`
	CtaURL      string `json:"cta_url,omitempty"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
}

type ScheduledPostCreation struct {
	AccountID   int64    `json:"account_id"`
	Content     string   `json:"content"`
	Title       string   `json:"title,omitempty"`
	MediaURL    string   `json:"media_url,omitempty"`
	MediaURLs   []string `json:"media_urls,omitempty"`
	ScheduledAt string   `json:"scheduled_at"`
}

// DispatchRequest is one composition session submitted as a whole: the
// selected accounts, the shared content, resolved media, platform extras and
// an optional schedule time.
type DispatchRequest struct {
	SelectedAccounts []int64  `json:"selected_accounts"`
	Content          string   `json:"content"`
	MediaURL         string   `json:"media_url,omitempty"`
	MediaURLs        []string `json:"media_urls,omitempty"`
	Title            string   `json:"title,omitempty"`
	Visibility       string   `json:"visibility,omitempty"`
	CtaType          string   `json:"cta_type,omitempty"`
	CtaURL           string   `json:"cta_url,omitempty"`
	ScheduledAt      string   `json:"scheduled_at,omitempty"`
}

type DispatchResult struct {
	AccountID   int64  `json:"account_id"`
	DisplayName string `json:"display_name"`
	Platform    string `json:"platform"`
	OK          bool   `json:"ok"`
	Permalink   string `json:"permalink,omitempty"`
	Error       string `json:"error,omitempty"`
}
