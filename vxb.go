package blockbuilder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
)

// VXB layout constants.
const (
	VxbVersion    = 1.0
	vxbUnknown1   = 0
	vxbHeaderSize = 4 + 4 + 4 + 4 + 4 + FaceCount*4 + 48 + 4 + 17
	vxbFaceBytes  = TextureSize * TextureSize * 4
)

var (
	vxbMagic    = [4]byte{'V', 'X', 'B', '1'}
	vxbReserved = [4]byte{0x02, 0x00, 0x00, 0x00}
	// Two null-terminated labels.
	vxbMaterialTag = []byte("Diffuse\x00Emissive\x00")
	// Emission texel written for every pixel of every face.
	vxbEmission = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

var (
	ErrFaceCount   = errors.New("vxb: wrong face count")
	ErrFaceOrder   = errors.New("vxb: faces out of order")
	ErrFaceSize    = errors.New("vxb: face must be 32x32")
	ErrPaletteSize = errors.New("vxb: palette must have 1-255 colors")
	ErrBadMagic    = errors.New("vxb: bad magic")
	ErrTruncated   = errors.New("vxb: truncated data")
	ErrBadHeader   = errors.New("vxb: unsupported header")
)

// VxbSize returns the encoded size of a file with n palette entries.
func VxbSize(paletteLen int) int {
	return vxbHeaderSize + 2*FaceCount*vxbFaceBytes + 1 + paletteLen*5
}

func checkVxbInput(faces []*FaceBuffer, palette Palette) error {
	if len(faces) != FaceCount {
		return fmt.Errorf("%w: got %d, want %d", ErrFaceCount, len(faces), FaceCount)
	}
	for i, f := range faces {
		if !f.isBlockSized() {
			if f == nil || f.NRGBA == nil {
				return fmt.Errorf("%w: face %d is nil", ErrFaceSize, i)
			}
			return fmt.Errorf("%w: face %d (%s) is %dx%d", ErrFaceSize, i, f.Face, f.Rect.Dx(), f.Rect.Dy())
		}
		if f.Face != VxbFaceOrder[i] {
			return fmt.Errorf("%w: slot %d holds %s, want %s", ErrFaceOrder, i, f.Face, VxbFaceOrder[i])
		}
	}
	if len(palette) == 0 || len(palette) > MaxPaletteSize {
		return fmt.Errorf("%w: got %d", ErrPaletteSize, len(palette))
	}
	return nil
}

// MarshalVxb encodes six faces in VxbFaceOrder and their shared palette.
// All preconditions are checked before any byte is produced.
func MarshalVxb(faces []*FaceBuffer, palette Palette) ([]byte, error) {
	if err := checkVxbInput(faces, palette); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, VxbSize(len(palette)))
	buf = append(buf, vxbMagic[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(VxbVersion))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(vxbUnknown1)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(TextureSize)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(FaceCount)))
	for i := range FaceCount {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(i)))
	}
	buf = append(buf, make([]byte, 48)...)
	buf = append(buf, vxbReserved[:]...)
	buf = append(buf, vxbMaterialTag...)

	// Diffuse, BGRA.
	for _, f := range faces {
		for y := range TextureSize {
			for x := range TextureSize {
				c := f.NRGBAAt(f.Rect.Min.X+x, f.Rect.Min.Y+y)
				buf = append(buf, c.B, c.G, c.R, c.A)
			}
		}
	}
	// Emission, BGRA.
	for range FaceCount * TextureSize * TextureSize {
		buf = append(buf, vxbEmission.B, vxbEmission.G, vxbEmission.R, vxbEmission.A)
	}

	buf = append(buf, uint8(len(palette)))
	for _, c := range palette {
		buf = append(buf, c.B, c.G, c.R, c.A, 0)
	}
	return buf, nil
}

// EncodeVxb writes the encoded file to w in a single write.
func EncodeVxb(w io.Writer, faces []*FaceBuffer, palette Palette) error {
	data, err := MarshalVxb(faces, palette)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// VxbDocument is a decoded VXB file.
type VxbDocument struct {
	Version     float32
	Unknown1    int32
	BlockSize   int32
	FaceIndices []int32
	// In VxbFaceOrder.
	Diffuse  [FaceCount]*FaceBuffer
	Emission [FaceCount]*image.NRGBA
	Palette  Palette
}

// DecodeVxb parses a file produced by MarshalVxb.
func DecodeVxb(data []byte) (*VxbDocument, error) {
	r := bytes.NewReader(data)
	var head struct {
		Magic     [4]byte
		Version   float32
		Unknown1  int32
		BlockSize int32
		FaceCount int32
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	if head.Magic != vxbMagic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, head.Magic[:])
	}
	if head.BlockSize != TextureSize || head.FaceCount != FaceCount {
		return nil, fmt.Errorf("%w: block size %d, face count %d", ErrBadHeader, head.BlockSize, head.FaceCount)
	}

	doc := &VxbDocument{
		Version:     head.Version,
		Unknown1:    head.Unknown1,
		BlockSize:   head.BlockSize,
		FaceIndices: make([]int32, FaceCount),
	}
	if err := binary.Read(r, binary.LittleEndian, doc.FaceIndices); err != nil {
		return nil, fmt.Errorf("%w: face indices: %v", ErrTruncated, err)
	}
	var skip [48 + 4 + 17]byte
	if _, err := io.ReadFull(r, skip[:]); err != nil {
		return nil, fmt.Errorf("%w: reserved blocks: %v", ErrTruncated, err)
	}

	texel := make([]byte, vxbFaceBytes)
	readFace := func() (*image.NRGBA, error) {
		if _, err := io.ReadFull(r, texel); err != nil {
			return nil, err
		}
		img := image.NewNRGBA(image.Rect(0, 0, TextureSize, TextureSize))
		for i := 0; i < len(texel); i += 4 {
			img.Pix[i+0] = texel[i+2]
			img.Pix[i+1] = texel[i+1]
			img.Pix[i+2] = texel[i+0]
			img.Pix[i+3] = texel[i+3]
		}
		return img, nil
	}
	for i := range FaceCount {
		img, err := readFace()
		if err != nil {
			return nil, fmt.Errorf("%w: diffuse face %d: %v", ErrTruncated, i, err)
		}
		doc.Diffuse[i] = &FaceBuffer{NRGBA: img, Face: VxbFaceOrder[i]}
	}
	for i := range FaceCount {
		img, err := readFace()
		if err != nil {
			return nil, fmt.Errorf("%w: emission face %d: %v", ErrTruncated, i, err)
		}
		doc.Emission[i] = img
	}

	n, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: palette count: %v", ErrTruncated, err)
	}
	entry := make([]byte, 5)
	doc.Palette = make(Palette, 0, n)
	for i := range int(n) {
		if _, err := io.ReadFull(r, entry); err != nil {
			return nil, fmt.Errorf("%w: palette entry %d: %v", ErrTruncated, i, err)
		}
		doc.Palette = append(doc.Palette, color.NRGBA{R: entry[2], G: entry[1], B: entry[0], A: entry[3]})
	}
	return doc, nil
}
