package confluence

// Page is the subset of a Confluence content object the client reads.
type Page struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Version Version `json:"version"`
	Space   *Space  `json:"space,omitempty"`
	Links   Links   `json:"_links"`
}

// Version carries a content version number.
type Version struct {
	Number int `json:"number"`
}

// Space identifies a Confluence space by key.
type Space struct {
	Key string `json:"key"`
}

// Links holds the URL parts returned with content objects.
type Links struct {
	Base  string `json:"base,omitempty"`
	WebUI string `json:"webui,omitempty"`
}

// Storage is a body in a given representation.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// Body wraps the storage representation of a page body.
type Body struct {
	Storage Storage `json:"storage"`
}

// PageUpdate describes a new version of an existing page.
type PageUpdate struct {
	ID       string
	Title    string
	SpaceKey string
	Markup   string
	Version  int
}

type pageUpdatePayload struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Space   Space   `json:"space"`
	Body    Body    `json:"body"`
	Version Version `json:"version"`
}

// PageTarget identifies the page a document is published to.
type PageTarget struct {
	ID    string
	Title string
	Space string
}

// PublishResult reports the outcome of PublishPage.
type PublishResult struct {
	PageID  string
	Version int
	Link    string
}

// Attachment is an existing file attached to a page.
type Attachment struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type attachmentList struct {
	Results []Attachment `json:"results"`
}
