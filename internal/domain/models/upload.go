package models

// Uploaded file kinds. Files are created client-side on selection and
// attached inline to a single request; they are never persisted.
const (
	FileKindImage = "image"
	FileKindPDF   = "pdf"
	FileKindText  = "text"
)

// UploadedFile is a client attachment carried in a request body.
// Payload is either inline text (text files) or a data URL (image/pdf).
type UploadedFile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Size    int64  `json:"size"`
	Payload string `json:"payload"`
}
