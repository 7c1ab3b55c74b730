package models

var userFields = []string{"external_urls", "href", "id", "type", "uri"}

// PublicUser is the profile any user exposes publicly.
type PublicUser struct {
	DisplayName  *string           `json:"display_name"`
	ExternalURLs map[string]string `json:"external_urls"`
	Followers    *Followers        `json:"followers,omitempty"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Images       []Image           `json:"images,omitempty"`
	Type         Type              `json:"type"`
	URI          string            `json:"uri"`
}

func (u *PublicUser) UnmarshalJSON(data []byte) error {
	type alias PublicUser
	return decodeObject(data, (*alias)(u), "public user", userFields)
}

// ExplicitContent holds the current user's explicit content settings.
type ExplicitContent struct {
	FilterEnabled bool `json:"filter_enabled"`
	FilterLocked  bool `json:"filter_locked"`
}

// PrivateUser is the current user's profile. Country, Email and Product require extra scopes.
type PrivateUser struct {
	Country         string            `json:"country,omitempty"`
	DisplayName     *string           `json:"display_name"`
	Email           string            `json:"email,omitempty"`
	ExplicitContent *ExplicitContent  `json:"explicit_content,omitempty"`
	ExternalURLs    map[string]string `json:"external_urls"`
	Followers       *Followers        `json:"followers,omitempty"`
	Href            string            `json:"href"`
	ID              string            `json:"id"`
	Images          []Image           `json:"images,omitempty"`
	Product         string            `json:"product,omitempty"`
	Type            Type              `json:"type"`
	URI             string            `json:"uri"`
}

func (u *PrivateUser) UnmarshalJSON(data []byte) error {
	type alias PrivateUser
	return decodeObject(data, (*alias)(u), "private user", userFields)
}

// Name returns the display name, falling back to the user id.
func (u PublicUser) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.ID
}
