package blockbuilder

import (
	"fmt"
	"image"
)

// TextureSize is the fixed edge length of a face texture in pixels.
const TextureSize = 32

// FaceCount is the number of faces of a block.
const FaceCount = 6

type Face int

const (
	FaceFront Face = iota
	FaceBack
	FaceTop
	FaceBottom
	FaceLeft
	FaceRight
)

// Faces lists the faces in generation order.
var Faces = [FaceCount]Face{FaceFront, FaceBack, FaceTop, FaceBottom, FaceLeft, FaceRight}

// VxbFaceOrder is the face order of a VXB file. It is part of the format.
var VxbFaceOrder = [FaceCount]Face{FaceRight, FaceBack, FaceBottom, FaceTop, FaceFront, FaceLeft}

func (f Face) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	default:
		return fmt.Sprintf("face(%d)", int(f))
	}
}

// ParseFace maps a face name back to its Face.
func ParseFace(s string) (Face, error) {
	for _, f := range Faces {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown face %q", s)
}

// FaceBuffer is a straight-alpha RGBA8 face texture tagged with its face.
type FaceBuffer struct {
	*image.NRGBA
	Face Face
}

func NewFaceBuffer(face Face) *FaceBuffer {
	return &FaceBuffer{
		NRGBA: image.NewNRGBA(image.Rect(0, 0, TextureSize, TextureSize)),
		Face:  face,
	}
}

// Clone returns a deep copy of the buffer.
func (fb *FaceBuffer) Clone() *FaceBuffer {
	img := image.NewNRGBA(fb.Rect)
	copy(img.Pix, fb.Pix)
	return &FaceBuffer{NRGBA: img, Face: fb.Face}
}

func (fb *FaceBuffer) isBlockSized() bool {
	return fb != nil && fb.NRGBA != nil &&
		fb.Rect.Dx() == TextureSize && fb.Rect.Dy() == TextureSize
}
