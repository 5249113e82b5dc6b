package processor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-filter/internal/detector"
	"github.com/aliskhannn/image-filter/internal/model"
	"github.com/aliskhannn/image-filter/internal/quad"
)

// grayscale converts the image to a single-channel image.
func (p *Processor) grayscale(ctx context.Context, req model.Request) (model.FilterResult, error) {
	img, err := p.load(ctx, req)
	if err != nil {
		return model.FilterResult{}, err
	}

	ref, err := p.save(ctx, req.TaskID, quad.Grayscale(img), whole(img))
	if err != nil {
		return model.FilterResult{}, err
	}

	return model.FilterResult{Image: ref}, nil
}

// threshold binarizes the image. Pixels brighter than the threshold become
// white. A missing or zero threshold is chosen automatically with Otsu's
// method.
func (p *Processor) threshold(ctx context.Context, req model.Request) (model.FilterResult, error) {
	t := 0
	if req.Threshold != nil {
		t = *req.Threshold
	}
	if t < 0 || t > 255 {
		return model.FilterResult{}, fmt.Errorf("%w: %d", ErrInvalidThreshold, t)
	}

	img, err := p.load(ctx, req)
	if err != nil {
		return model.FilterResult{}, err
	}

	gray := quad.Grayscale(img)
	if t == 0 {
		t = int(quad.OtsuThreshold(gray))
	}

	ref, err := p.save(ctx, req.TaskID, binarize(gray, t), whole(img))
	if err != nil {
		return model.FilterResult{}, err
	}

	return model.FilterResult{
		Image:  ref,
		Params: model.ThresholdParams{Threshold: strconv.Itoa(t)},
	}, nil
}

// binarize maps intensities > t to white and the rest to black.
func binarize(gray *image.Gray, t int) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := gray.Pix[gray.PixOffset(b.Min.X, y):gray.PixOffset(b.Max.X, y)]
		dst := out.Pix[out.PixOffset(b.Min.X, y):]
		for x, v := range src {
			if int(v) > t {
				dst[x] = 255
			}
		}
	}

	return out
}

// faceDetection outlines every detected face and stores a crop of each.
func (p *Processor) faceDetection(ctx context.Context, req model.Request) (model.FilterResult, error) {
	img, regions, err := p.detect(ctx, p.faces, req)
	if err != nil {
		return model.FilterResult{}, err
	}

	ref, err := p.save(ctx, req.TaskID, drawBoxes(img, regions), whole(img))
	if err != nil {
		return model.FilterResult{}, err
	}

	faces := make([]model.ImageRef, 0, len(regions))
	for _, r := range regions {
		face, err := p.save(ctx, req.TaskID, imaging.Crop(img, r.Box), r.Box)
		if err != nil {
			return model.FilterResult{}, err
		}
		faces = append(faces, face)
	}

	return model.FilterResult{Image: ref, Params: model.FaceParams{Faces: faces}}, nil
}

// textDetection outlines every recognised word and stores a crop of each
// together with its text.
func (p *Processor) textDetection(ctx context.Context, req model.Request) (model.FilterResult, error) {
	img, regions, err := p.detect(ctx, p.texts, req)
	if err != nil {
		return model.FilterResult{}, err
	}

	ref, err := p.save(ctx, req.TaskID, drawBoxes(img, regions), whole(img))
	if err != nil {
		return model.FilterResult{}, err
	}

	texts := make([]model.TextRef, 0, len(regions))
	for _, r := range regions {
		crop, err := p.save(ctx, req.TaskID, imaging.Crop(img, r.Box), r.Box)
		if err != nil {
			return model.FilterResult{}, err
		}
		texts = append(texts, model.TextRef{ImageRef: crop, Text: r.Text, Confidence: r.Confidence})
	}

	return model.FilterResult{Image: ref, Params: model.TextParams{Texts: texts}}, nil
}

// detect loads the image and runs d on it. The returned image starts at
// (0, 0) and the regions are clipped to it.
func (p *Processor) detect(ctx context.Context, d detector.Detector, req model.Request) (image.Image, []detector.Region, error) {
	if d == nil {
		return nil, nil, detector.ErrUnavailable
	}

	src, err := p.load(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	img := imaging.Clone(src)

	regions, err := d.Detect(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to detect regions: %w", err)
	}

	return img, detector.Clip(regions, img.Bounds()), nil
}

// contourExtraction finds four-sided document regions, outlines them and
// stores an upright rectified crop of each. An image without any such
// region is not an error.
func (p *Processor) contourExtraction(ctx context.Context, req model.Request) (model.FilterResult, error) {
	src, err := p.load(ctx, req)
	if err != nil {
		return model.FilterResult{}, err
	}
	img := imaging.Clone(src)

	quads := quad.Detect(img)

	ref, err := p.save(ctx, req.TaskID, drawQuads(img, quads), whole(img))
	if err != nil {
		return model.FilterResult{}, err
	}

	extracted := make([]model.ImageRef, 0, len(quads))
	for _, q := range quads {
		c := quad.ResolveCorners(q)

		crop, err := quad.Rectify(img, c)
		if errors.Is(err, quad.ErrDegenerateRegion) {
			zlog.Logger.Debug().
				Str("task_id", req.TaskID).
				Interface("corners", c).
				Msg("skipping degenerate region")
			continue
		}
		if err != nil {
			return model.FilterResult{}, fmt.Errorf("failed to rectify region: %w", err)
		}

		w, h := c.Size()
		region, err := p.save(ctx, req.TaskID, crop, image.Rect(c.TL.X, c.TL.Y, c.TL.X+w, c.TL.Y+h))
		if err != nil {
			return model.FilterResult{}, err
		}
		extracted = append(extracted, region)
	}

	zlog.Logger.Info().
		Str("task_id", req.TaskID).
		Int("candidates", len(quads)).
		Int("extracted", len(extracted)).
		Msg("contour extraction done")

	return model.FilterResult{Image: ref, Params: model.QuadParams{Extracted: extracted}}, nil
}
