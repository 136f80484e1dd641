package model

// UploadDateLayout is the Go layout for UploadedItem.UploadDate ("YYYY-MM-DD HH:mm:ss").
const UploadDateLayout = "2006-01-02 15:04:05"

// UploadedItem is one uploaded image or document as persisted in its collection's JSON file.
// ID is derived from the creation time in Unix milliseconds, so ordering by ID is ordering by recency.
type UploadedItem struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
	UploadDate  string `json:"uploadDate"`
}

// Collection names one independent set of uploads: where its metadata lives
// and under which prefix its binaries are stored.
type Collection struct {
	Name     string
	DataFile string
	Prefix   string
}

// Images and Documents are the two collections served by galeri.
var (
	Images = Collection{
		Name:     "images",
		DataFile: "images.json",
		Prefix:   "uploads",
	}
	Documents = Collection{
		Name:     "documents",
		DataFile: "documents.json",
		Prefix:   "documents",
	}
)
