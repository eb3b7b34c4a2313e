package transfer

import "time"

// GraphErrorResponse is the error envelope shared by the Facebook and
// Instagram Graph APIs.
type GraphErrorResponse struct {
	Error struct {
		Message        string `json:"message"`
		Type           string `json:"type"`
		Code           int    `json:"code"`
		ErrorSubcode   int    `json:"error_subcode"`
		IsTransient    bool   `json:"is_transient"`
		ErrorUserTitle string `json:"error_user_title"`
		ErrorUserMsg   string `json:"error_user_msg"`
		FbtraceID      string `json:"fbtrace_id"`
	} `json:"error"`
}

type GraphIDResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

type FacebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
	Picture     struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

type FacebookPagesResponse struct {
	Data []FacebookPage `json:"data"`
}

type InstagramToken struct {
	UserID         int       `json:"user_id"`
	AccessToken    string    `json:"access_token"`
	LongLivedToken string    `json:"long_lived_token"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type InstagramUserInfo struct {
	UserID         string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture_url"`
}

// GmbLocalPost mirrors the My Business API localPost resource, trimmed to the
// fields this service reads and writes.
type GmbLocalPost struct {
	Name         string `json:"name,omitempty"`
	Summary      string `json:"summary"`
	LanguageCode string `json:"languageCode,omitempty"`
	State        string `json:"state,omitempty"`
	SearchURL    string `json:"searchUrl,omitempty"`
	Media        []struct {
		MediaFormat string `json:"mediaFormat"`
		SourceURL   string `json:"sourceUrl"`
	} `json:"media,omitempty"`
	CallToAction *GmbCallToAction `json:"callToAction,omitempty"`
}

type GmbCallToAction struct {
	ActionType string `json:"actionType"`
	URL        string `json:"url,omitempty"`
}

type GmbLocationResource struct {
	Name         string `json:"name"`
	LocationName string `json:"locationName"`
	Address      struct {
		AddressLines []string `json:"addressLines"`
		Locality     string   `json:"locality"`
	} `json:"address"`
}

type GmbLocationsResponse struct {
	Locations []GmbLocationResource `json:"locations"`
}
