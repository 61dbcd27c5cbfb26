// Package asset implements the image-asset lifecycle: validation of incoming
// uploads, write-then-index persistence across the object store and the
// metadata index, ordered paginated listing, and soft delete.
package asset

import "time"

// TimeFormat renders asset timestamps for API consumers.
const TimeFormat = "2006-01-02 15:04:05"

// Asset is the persisted metadata record for one uploaded image.
//
// StoredName is the system-generated object key suffix; OriginalName keeps
// the client-supplied filename verbatim for display. Deleted rows are hidden
// from listings but never physically purged here.
type Asset struct {
	ID           int64
	StoredName   string
	OriginalName string
	URL          string
	SizeBytes    int64
	MediaType    string
	Description  string
	UploadedAt   time.Time
	UpdatedAt    time.Time
	Deleted      bool
	SortOrder    int
}

// View is the public projection of an Asset returned by upload and list.
type View struct {
	ID          int64  `json:"id"`
	StoredName  string `json:"fileName"`
	URL         string `json:"fileUrl"`
	SizeBytes   int64  `json:"fileSize"`
	MediaType   string `json:"fileType"`
	Description string `json:"description,omitempty"`
	UploadedAt  string `json:"uploadTime"`
}

// Page is one window of the non-deleted asset listing.
type Page struct {
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
	Items []View `json:"list"`
}

// Upload describes an incoming file before validation. Size and MediaType
// are client-declared; no byte-level sniffing is performed.
type Upload struct {
	Filename    string
	MediaType   string
	SizeBytes   int64
	Description string
}

func (a *Asset) view() View {
	return View{
		ID:          a.ID,
		StoredName:  a.StoredName,
		URL:         a.URL,
		SizeBytes:   a.SizeBytes,
		MediaType:   a.MediaType,
		Description: a.Description,
		UploadedAt:  a.UploadedAt.Format(TimeFormat),
	}
}
