// Package quad finds four-sided document regions in a photograph and
// rectifies each one into an upright image.
//
// The pipeline is:
//
//  1. Segment: grayscale, Otsu threshold, bright pixels are foreground.
//  2. FindQuads: outer boundary of every 8-connected foreground component,
//     filtered by area (1%..99% of the frame) and simplified with
//     Douglas-Peucker at 10% of the contour perimeter. Only 4-vertex
//     polygons survive.
//  3. ResolveCorners: assign top-left/top-right/bottom-left/bottom-right
//     independently of the contour's winding and start vertex.
//  4. Rectify: homography from the corners to an axis-aligned rectangle,
//     bilinear resampling.
package quad
