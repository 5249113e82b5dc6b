package model

// Operation names a filter that derives a new image from a stored one.
type Operation string

const (
	OpGrayscale         Operation = "grayscale"
	OpThreshold         Operation = "threshold"
	OpFaceDetection     Operation = "face_detection"
	OpTextDetection     Operation = "text_detection"
	OpContourExtraction Operation = "contour_extraction"
)

// Operations lists every operation exposed over HTTP.
var Operations = []Operation{
	OpGrayscale,
	OpThreshold,
	OpFaceDetection,
	OpTextDetection,
	OpContourExtraction,
}

// Params is the operation-specific part of a FilterResult. A nil Params
// means the operation has no parameters and is encoded as JSON null.
type Params interface {
	params()
}

// ThresholdParams reports the threshold actually applied.
type ThresholdParams struct {
	Threshold string `json:"threshold"`
}

// FaceParams lists the cropped faces.
type FaceParams struct {
	Faces []ImageRef `json:"faces"`
}

// TextParams lists the cropped text regions.
type TextParams struct {
	Texts []TextRef `json:"texts"`
}

// QuadParams lists the rectified document regions.
type QuadParams struct {
	Extracted []ImageRef `json:"extracted"`
}

func (ThresholdParams) params() {}
func (FaceParams) params()      {}
func (TextParams) params()      {}
func (QuadParams) params()      {}

// FilterResult is the outcome of one operation.
type FilterResult struct {
	Image  ImageRef `json:"image"`
	Params Params   `json:"params"`
}
