package model

// ImageID addresses one immutable stored image within a task.
type ImageID struct {
	TaskID string `json:"task_id"`
	ID     string `json:"id"`
}

// ImageRef is a stored image together with the region it covers in its
// source image. For a whole-image result X and Y are zero.
type ImageRef struct {
	TaskID string `json:"task_id"`
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// TextRef is an image region together with the text recognised in it.
type TextRef struct {
	ImageRef
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// UploadResult is returned for a freshly uploaded image.
type UploadResult struct {
	Image ImageID `json:"image"`
}

// Request selects the image an operation is applied to.
type Request struct {
	TaskID    string `json:"task_id"`
	ID        string `json:"id"`
	Threshold *int   `json:"threshold,omitempty"` // threshold only; nil or 0 means automatic
}
